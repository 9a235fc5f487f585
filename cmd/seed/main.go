package main

import (
	"context"
	"fmt"
	"log"

	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/db"
	"github.com/heraerp/heracore/db/migrations"
	"github.com/heraerp/heracore/lib"
	"github.com/heraerp/heracore/lib/service"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun/migrate"
)

// Seeds a demo salon organization: a couple of customers with typed dynamic
// fields, services, a workflow status and one completed sale.
func main() {
	c := &service.Config{}

	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	logger := lib.Logger(c.LogFilePath)

	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(ctx)
	if err != nil {
		logger.Fatalf("Error initializing db migrator: %v", err)
	}
	_, err = migrator.Migrate(ctx)
	if err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}

	svc := &service.HeraService{
		Config:      c,
		DB:          dbConn,
		Logger:      logger,
		EventPubSub: service.NewPubsub(),
	}

	org, err := svc.CreateOrganization(ctx, "Demo Hair Salon", "DEMO-SALON")
	if err != nil {
		logger.Fatalf("Error creating organization: %v", err)
	}
	logger.Infof("Created organization %s (%s)", org.Name, org.ID)

	admin, err := svc.CreateUser(ctx, org.ID, "", "", "Salon Admin")
	if err != nil {
		logger.Fatalf("Error creating admin user: %v", err)
	}
	actorID := admin.Entity.ID
	logger.Infof("Created admin user, login: %s password: %s", admin.Login, admin.Password)

	customer, err := svc.CreateEntity(ctx, service.CreateEntityParams{
		OrganizationID: org.ID,
		ActorID:        actorID,
		EntityType:     common.EntityTypeCustomer,
		EntityName:     "Maria Lopez",
		SmartCode:      "HERA.SALON.CRM.CUSTOMER.v1",
		DynamicFields: []service.DynamicFieldInput{
			{FieldName: "phone", FieldType: common.FieldTypeText, Value: "+34 600 123 456", SmartCode: "HERA.SALON.CRM.CUSTOMER.PHONE.v1"},
			{FieldName: "loyalty_points", FieldType: common.FieldTypeNumber, Value: 120, SmartCode: "HERA.SALON.CRM.CUSTOMER.LOYALTY.v1"},
			{FieldName: "vip", FieldType: common.FieldTypeBoolean, Value: true, SmartCode: "HERA.SALON.CRM.CUSTOMER.VIP.v1"},
		},
	})
	if err != nil {
		logger.Fatalf("Error creating customer: %v", err)
	}

	haircut, err := svc.CreateEntity(ctx, service.CreateEntityParams{
		OrganizationID: org.ID,
		ActorID:        actorID,
		EntityType:     common.EntityTypeService,
		EntityName:     "Haircut",
		SmartCode:      "HERA.SALON.CATALOG.SERVICE.v1",
		DynamicFields: []service.DynamicFieldInput{
			{FieldName: "price", FieldType: common.FieldTypeNumber, Value: 35.0, SmartCode: "HERA.SALON.CATALOG.SERVICE.PRICE.v1"},
			{FieldName: "duration_minutes", FieldType: common.FieldTypeNumber, Value: 45, SmartCode: "HERA.SALON.CATALOG.SERVICE.DURATION.v1"},
		},
	})
	if err != nil {
		logger.Fatalf("Error creating service: %v", err)
	}

	coloring, err := svc.CreateEntity(ctx, service.CreateEntityParams{
		OrganizationID: org.ID,
		ActorID:        actorID,
		EntityType:     common.EntityTypeService,
		EntityName:     "Coloring",
		SmartCode:      "HERA.SALON.CATALOG.SERVICE.v1",
		DynamicFields: []service.DynamicFieldInput{
			{FieldName: "price", FieldType: common.FieldTypeNumber, Value: 80.0, SmartCode: "HERA.SALON.CATALOG.SERVICE.PRICE.v1"},
		},
	})
	if err != nil {
		logger.Fatalf("Error creating service: %v", err)
	}

	if _, err := svc.SetEntityStatus(ctx, org.ID, actorID, customer.ID, "active_client"); err != nil {
		logger.Fatalf("Error setting customer status: %v", err)
	}

	haircutID := haircut.ID
	coloringID := coloring.ID
	customerID := customer.ID
	sale, err := svc.CreateTransaction(ctx, service.CreateTransactionParams{
		OrganizationID:  org.ID,
		ActorID:         actorID,
		TransactionType: common.TransactionTypeSale,
		SmartCode:       "HERA.SALON.POS.SALE.v1",
		TotalAmount:     decimal.NewFromInt(115),
		Currency:        "EUR",
		Status:          common.TransactionStatusCompleted,
		SourceEntityID:  &customerID,
		Lines: []service.TransactionLineInput{
			{
				LineNumber: 1,
				LineType:   common.LineTypeItem,
				EntityID:   &haircutID,
				Quantity:   decimal.NewFromInt(1),
				UnitAmount: decimal.NewFromInt(35),
				LineAmount: decimal.NewFromInt(35),
				SmartCode:  "HERA.SALON.POS.SALE.LINE.v1",
			},
			{
				LineNumber: 2,
				LineType:   common.LineTypeItem,
				EntityID:   &coloringID,
				Quantity:   decimal.NewFromInt(1),
				UnitAmount: decimal.NewFromInt(80),
				LineAmount: decimal.NewFromInt(80),
				SmartCode:  "HERA.SALON.POS.SALE.LINE.v1",
			},
		},
	})
	if err != nil {
		logger.Fatalf("Error creating sale: %v", err)
	}

	logger.Infof("Seeded sale %s with %d lines for customer %s", sale.TransactionCode, len(sale.Lines), customer.EntityName)
	logger.Info("Seeding done")
}
