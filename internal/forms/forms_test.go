package forms

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupSet(values ...string) Lookup {
	set := map[string]bool{}
	for _, v := range values {
		set[v] = true
	}
	return func(_ context.Context, v string) (bool, error) { return set[v], nil }
}

func validRegistration() Values {
	return Values{
		"username":         "newuser",
		"email":            "new@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	}
}

func TestRegistration_Valid(t *testing.T) {
	form := Registration(lookupSet("taken"), lookupSet("taken@example.com"))
	values, errs, err := form.Validate(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.True(t, errs.Valid(), errs)
	assert.Equal(t, "newuser", values["username"])
}

func TestRegistration_DuplicateUsername(t *testing.T) {
	form := Registration(lookupSet("newuser"), lookupSet())
	_, errs, err := form.Validate(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, Errors{"username": {UsernameTakenMsg}}, errs)
}

func TestRegistration_DuplicateEmail(t *testing.T) {
	form := Registration(lookupSet(), lookupSet("new@example.com"))
	_, errs, err := form.Validate(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, Errors{"email": {EmailTakenMsg}}, errs)
}

func TestRegistration_FieldRules(t *testing.T) {
	form := Registration(lookupSet(), lookupSet())
	_, errs, err := form.Validate(context.Background(), Values{
		"username":         "abc",
		"email":            "not-an-email",
		"password":         "short",
		"confirm_password": "different1",
	})
	require.NoError(t, err)

	want := Errors{
		"username":         {"Field must be between 5 and 15 characters long."},
		"email":            {"Invalid email address."},
		"password":         {"Field must be between 8 and 20 characters long."},
		"confirm_password": {"Field must be equal to password."},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistration_RequiredStopsChain(t *testing.T) {
	called := false
	taken := func(context.Context, string) (bool, error) {
		called = true
		return false, nil
	}
	_, errs, err := Registration(taken, taken).Validate(context.Background(), Values{})
	require.NoError(t, err)

	assert.False(t, called)
	for _, f := range []string{"username", "email", "password", "confirm_password"} {
		assert.Equal(t, []string{"This field is required."}, errs[f], f)
	}
}

func TestRegistration_LookupFailure(t *testing.T) {
	boom := errors.New("db down")
	failing := func(context.Context, string) (bool, error) { return false, boom }

	_, _, err := Registration(failing, lookupSet()).Validate(context.Background(), validRegistration())
	assert.ErrorIs(t, err, boom)
}

func TestUpdateAccount_UnchangedSkipsUniqueness(t *testing.T) {
	form := UpdateAccount("corey", "corey@example.com", lookupSet("corey"), lookupSet("corey@example.com"))
	_, errs, err := form.Validate(context.Background(), Values{"username": "corey", "email": "corey@example.com"})
	require.NoError(t, err)
	assert.True(t, errs.Valid(), errs)
}

func TestUpdateAccount_ChangedToTaken(t *testing.T) {
	form := UpdateAccount("corey", "corey@example.com", lookupSet("corey", "other"), lookupSet())
	_, errs, err := form.Validate(context.Background(), Values{"username": "other", "email": "corey@example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{UsernameTakenMsg}, errs["username"])
}

func TestUpdateAccount_PictureExtension(t *testing.T) {
	form := UpdateAccount("corey", "c@example.com", lookupSet(), lookupSet())
	for name, ok := range map[string]bool{"me.png": true, "ME.JPG": true, "me.gif": false, "me": false, "": true} {
		_, errs, err := form.Validate(context.Background(), Values{"username": "corey", "email": "c@example.com", "picture": name})
		require.NoError(t, err)
		assert.Equal(t, ok, !errs.Has("picture"), name)
	}
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	form := RequestReset(lookupSet("known@example.com"))

	_, errs, err := form.Validate(context.Background(), Values{"email": "unknown@example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{NoAccountMsg}, errs["email"])

	_, errs, err = form.Validate(context.Background(), Values{"email": " known@example.com "})
	require.NoError(t, err)
	assert.True(t, errs.Valid())
}

func TestPost_Sanitizes(t *testing.T) {
	values, errs, err := Post().Validate(context.Background(), Values{
		"title":   "<b>Fish &amp; Chips</b>",
		"content": `<p onclick="x()">hi</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	require.True(t, errs.Valid())

	assert.Equal(t, "Fish & Chips", values["title"])
	assert.Equal(t, "<p>hi</p>", values["content"])
}

func TestPost_ScriptOnlyContentIsEmpty(t *testing.T) {
	_, errs, err := Post().Validate(context.Background(), Values{
		"title":   "ok",
		"content": "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.True(t, errs.Has("content"))
}

func TestEcho_DropsSecrets(t *testing.T) {
	form := Registration(lookupSet(), lookupSet())
	echo := form.Echo(validRegistration())

	assert.Equal(t, "newuser", echo["username"])
	_, hasPassword := echo["password"]
	assert.False(t, hasPassword)
}

func TestChecked(t *testing.T) {
	assert.True(t, Checked("on"))
	assert.True(t, Checked("y"))
	assert.False(t, Checked(""))
	assert.False(t, Checked("off"))
}
