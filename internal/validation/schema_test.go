package validation

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	require.Error(t, err)
	errs, ok := err.(Errors)
	require.True(t, ok, "expected validation.Errors, got %T", err)
	return errs
}

func TestParseContact_Normalizes(t *testing.T) {
	body := `{"name":"  Jo ","email":" JO@EX.com ","subject":"Need help with lessons","message":"` + strings.Repeat("x", 25) + `"}`

	in, err := ParseContact([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "Jo", in.Name)
	assert.Equal(t, "jo@ex.com", in.Email)
	assert.Equal(t, "", in.Phone)
	assert.Equal(t, "Need help with lessons", in.Subject)
}

func TestParseContact_RejectsUnknownField(t *testing.T) {
	body := `{"name":"Jo","email":"jo@ex.com","subject":"Need help","message":"` + strings.Repeat("x", 25) + `","isAdmin":true}`

	_, err := ParseContact([]byte(body))
	errs := fieldErrors(t, err)

	require.Len(t, errs, 1)
	assert.Equal(t, FieldError{Path: "isAdmin", Message: "Unrecognized field: isAdmin"}, errs[0])
}

func TestParseContact_CollectsAllErrors(t *testing.T) {
	_, err := ParseContact([]byte(`{"name":"J","email":"nope","subject":"hi","message":"short"}`))
	errs := fieldErrors(t, err)

	assert.Len(t, errs, 4)
	assert.Equal(t, "Name must be at least 2 characters long", errs.Headline("Please provide valid data"))
	for _, path := range []string{"name", "email", "subject", "message"} {
		assert.True(t, errs.Has(path), "missing error for %s", path)
	}
}

func TestParseContact_MissingRequired(t *testing.T) {
	_, err := ParseContact(nil)
	errs := fieldErrors(t, err)

	assert.Equal(t, Errors{
		{Path: "name", Message: "Name is required"},
		{Path: "email", Message: "Email is required"},
		{Path: "subject", Message: "Subject is required"},
		{Path: "message", Message: "Message is required"},
	}, errs)
}

func TestPhoneRefinements(t *testing.T) {
	base := `"name":"Jo","email":"jo@ex.com","subject":"Need help","message":"` + strings.Repeat("x", 25) + `"`

	tests := []struct {
		name  string
		phone string
		want  []string
	}{
		{"valid", `"+91 98765-43210"`, nil},
		{"empty counts as absent", `"   "`, nil},
		{"bad symbols", `"(987) 654 3210"`, []string{"Phone number contains invalid characters"}},
		{"too few digits", `"12345"`, []string{"Phone number must be between 10 and 15 digits"}},
		{"both fail", `"abc"`, []string{
			"Phone number contains invalid characters",
			"Phone number must be between 10 and 15 digits",
		}},
		{"wrong type", `9876543210`, []string{"Expected string, received number"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContact([]byte(`{` + base + `,"phone":` + tt.phone + `}`))
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			errs := fieldErrors(t, err)
			var got []string
			for _, fe := range errs {
				assert.Equal(t, "phone", fe.Path)
				got = append(got, fe.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePurchase(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in, err := ParsePurchase([]byte(`{"name":"Asha","email":"Asha@Example.COM","courseSlug":"vocal-basics","courseTitle":"Vocal Basics","coursePrice":4999}`))
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", in.Email)
		assert.Equal(t, 4999.0, in.CoursePrice)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := ParsePurchase([]byte(`{"name":"Asha","email":"asha@example.com","courseSlug":"vocal-basics","courseTitle":"Vocal Basics","coursePrice":-5}`))
		errs := fieldErrors(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, FieldError{Path: "coursePrice", Message: "Course price must be positive"}, errs[0])
	})

	t.Run("price as string", func(t *testing.T) {
		_, err := ParsePurchase([]byte(`{"name":"Asha","email":"asha@example.com","courseSlug":"vocal-basics","courseTitle":"Vocal Basics","coursePrice":"5"}`))
		errs := fieldErrors(t, err)
		assert.Equal(t, "Expected number, received string", errs[0].Message)
	})

	t.Run("blank slug", func(t *testing.T) {
		_, err := ParsePurchase([]byte(`{"name":"Asha","email":"asha@example.com","courseSlug":"  ","courseTitle":"Vocal Basics","coursePrice":10}`))
		errs := fieldErrors(t, err)
		assert.Equal(t, Errors{{Path: "courseSlug", Message: "Course slug is required"}}, errs)
	})
}

func TestParseLogin(t *testing.T) {
	creds, err := ParseLogin([]byte(`{"email":" Admin@Site.io ","password":" secret1 "}`))
	require.NoError(t, err)
	assert.Equal(t, "admin@site.io", creds.Email)
	assert.Equal(t, " secret1 ", creds.Password, "passwords are not trimmed")

	_, err = ParseLogin([]byte(`{"email":"a@b.c","password":"x"}`))
	errs := fieldErrors(t, err)
	assert.True(t, errs.Has("email"))
	assert.True(t, errs.Has("password"))
}

func TestValidate_BodyShape(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"array", `[1,2]`, "Expected object, received array"},
		{"string", `"hello"`, "Expected object, received string"},
		{"malformed", `{"name":`, "Malformed JSON body"},
		{"trailing data", `{} {}`, "Malformed JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ContactSchema.Validate([]byte(tt.body))
			errs := fieldErrors(t, err)
			require.Len(t, errs, 1)
			assert.Equal(t, "", errs[0].Path)
			assert.Equal(t, tt.want, errs[0].Message)
		})
	}
}

func TestParseRegister_PasswordByteCeiling(t *testing.T) {
	_, err := ParseRegister([]byte(`{"email":"owner@site.io","password":"` + strings.Repeat("é", 40) + `"}`))
	errs := fieldErrors(t, err)

	require.Len(t, errs, 1)
	assert.Equal(t, FieldError{Path: "password", Message: "Password must be at most 72 bytes"}, errs[0])

	creds, err := ParseRegister([]byte(`{"email":"owner@site.io","password":"` + strings.Repeat("é", 36) + `"}`))
	require.NoError(t, err)
	assert.Len(t, creds.Password, PasswordMaxBytes)
}

func TestParseLogin_RejectsOperatorObjects(t *testing.T) {
	_, err := ParseLogin([]byte(`{"email":{"$gt":""},"password":{"$ne":""}}`))
	errs := fieldErrors(t, err)

	assert.Equal(t, Errors{
		{Path: "email", Message: "Expected string, received object"},
		{Path: "password", Message: "Expected string, received object"},
	}, errs)
}

func TestParseContact_KeepsMarkupVerbatim(t *testing.T) {
	msg := `<script>alert("hi")</script> ` + strings.Repeat("x", 20)
	body := `{"name":"Jo","email":"jo@ex.com","subject":"Need help","message":` + strconv.Quote(msg) + `}`

	in, err := ParseContact([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, msg, in.Message)
}
