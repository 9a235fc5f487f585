package smartcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCodes(t *testing.T) {
	valid := []string{
		"HERA.SALON.CUSTOMER.ENTITY.v1",
		"HERA.SYSTEM.AUDIT.EVENT.v1",
		"HERA.FIN.GL.ACCOUNT.ASSET.v2",
		"HERA.REST.POS.SALE.TXN.LINE.v10",
		"HERA.CRM.CAMPAIGN_2024.TARGET.LIST.v1",
	}
	for _, code := range valid {
		assert.NoError(t, Validate(code), code)
		assert.True(t, IsValid(code), code)
	}
}

func TestRejectsLowercase(t *testing.T) {
	err := Validate("HERA.salon.CUSTOMER.ENTITY.v1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "uppercase")
}

func TestRejectsMissingRoot(t *testing.T) {
	err := Validate("SALON.CUSTOMER.ENTITY.PROFILE.v1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "root token")
}

func TestRejectsLowercaseRoot(t *testing.T) {
	err := Validate("hera.SALON.CUSTOMER.ENTITY.v1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "uppercase")
}

func TestRejectsUppercaseVersion(t *testing.T) {
	err := Validate("HERA.SALON.CUSTOMER.ENTITY.V1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "lowercase v")
}

func TestRejectsMissingVersion(t *testing.T) {
	err := Validate("HERA.SALON.CUSTOMER.ENTITY")
	assert.Error(t, err)
}

func TestRejectsEmptySegment(t *testing.T) {
	err := Validate("HERA.SALON..ENTITY.PROFILE.v1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty segment")
}

func TestRejectsIllegalCharacters(t *testing.T) {
	err := Validate("HERA.SALON.CUST-OMER.ENTITY.v1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "characters outside")
}

func TestRejectsTooFewSegments(t *testing.T) {
	// only two segments between root and version
	err := Validate("HERA.SALON.CUSTOMER.v1")
	assert.Error(t, err)
}

func TestRejectsTooManySegments(t *testing.T) {
	err := Validate("HERA.A1.B2.C3.D4.E5.F6.G7.H8.I9.v1")
	assert.Error(t, err)
}

func TestRejectsEmptyCode(t *testing.T) {
	err := Validate("")
	assert.Error(t, err)
}

func TestErrorNamesOffendingCode(t *testing.T) {
	err := Validate("bogus")
	assert.Contains(t, err.Error(), "bogus")
}
