package signup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillAccount(f *Flow) {
	f.Request.Email = "  Ada@Example.COM "
	f.Request.Password = "correct horse"
	f.Request.FullName = "Ada Lovelace"
}

func TestFlow_AccountStepRequiresFields(t *testing.T) {
	f := NewFlow("", false)

	err := f.Next()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Email is required", fe["Email"])
	assert.Equal(t, "Password is required", fe["Password"])
	assert.Equal(t, "Full name is required", fe["FullName"])
	assert.Equal(t, StepAccount, f.Step())
}

func TestFlow_AccountValidation(t *testing.T) {
	f := NewFlow("", false)
	f.Request.Email = "not-an-email"
	f.Request.Password = "short"
	f.Request.FullName = "Ada"

	var fe FieldErrors
	require.True(t, errors.As(f.Next(), &fe))
	assert.Equal(t, "Enter a valid email address", fe["Email"])
	assert.Equal(t, "Password must be at least 8 characters", fe["Password"])
	assert.NotContains(t, fe, "FullName")
}

func TestFlow_OnlyCurrentStepIsValidated(t *testing.T) {
	f := NewFlow("", false)
	fillAccount(f)

	require.NoError(t, f.Next())
	assert.Equal(t, StepOrganization, f.Step())
	assert.Equal(t, "ada@example.com", f.Request.Email)
}

func TestFlow_FullWalkthrough(t *testing.T) {
	f := NewFlow("pro", true)
	fillAccount(f)
	require.NoError(t, f.Next())

	f.Request.Company = "Analytical Engines"
	f.Request.TeamSize = 0
	var fe FieldErrors
	require.True(t, errors.As(f.Next(), &fe))
	assert.Contains(t, fe, "TeamSize")

	f.Request.TeamSize = 12
	require.NoError(t, f.Next())
	assert.Equal(t, StepPlan, f.Step())

	require.NoError(t, f.Next(), "plan was preselected")
	assert.Equal(t, StepReview, f.Step())

	require.True(t, errors.As(f.Next(), &fe))
	assert.Equal(t, "You must accept the terms to continue", fe["AcceptTerms"])

	f.Request.AcceptTerms = true
	require.NoError(t, f.Next())
	assert.True(t, f.Ready())
	assert.NoError(t, f.Complete())
	assert.True(t, f.Request.Yearly)

	assert.ErrorIs(t, f.Next(), ErrFinished)
}

func TestFlow_PlanRequired(t *testing.T) {
	f := NewFlow("", false)
	fillAccount(f)
	require.NoError(t, f.Next())
	f.Request.Company = "Acme"
	f.Request.TeamSize = 3
	require.NoError(t, f.Next())

	var fe FieldErrors
	require.True(t, errors.As(f.Next(), &fe))
	assert.Equal(t, "Choose a plan", fe["PlanID"])
}

func TestFlow_Back(t *testing.T) {
	f := NewFlow("", false)
	f.Back()
	assert.Equal(t, StepAccount, f.Step())

	fillAccount(f)
	require.NoError(t, f.Next())
	f.Back()
	assert.Equal(t, StepAccount, f.Step())
	assert.Equal(t, 1, f.Index())
}

func TestFieldErrors_ErrorIsOrdered(t *testing.T) {
	fe := FieldErrors{"AcceptTerms": "terms", "Email": "email"}
	assert.Equal(t, "email; terms", fe.Error())
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "Organization", StepOrganization.String())
	assert.Equal(t, "Unknown", Step(42).String())
}
