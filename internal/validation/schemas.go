package validation

import "regexp"

var phoneSymbols = regexp.MustCompile(`^[+]?[0-9\s-]+$`)

// Password bounds. bcrypt only accepts up to PasswordMaxBytes of input, which
// multi-byte passwords can reach within PasswordMaxLen characters.
const (
	PasswordMinLen   = 6
	PasswordMaxLen   = 50
	PasswordMaxBytes = 72
)

func credentialFields() []Field {
	return []Field{
		{
			Name: "email", Label: "Email", Type: TypeString, Trim: true, Lower: true,
			Rules: []Rule{
				MinLen(6, "Email must be at least 6 characters"),
				MaxLen(50, "Email must be at most 50 characters"),
				Email("Invalid email address"),
			},
		},
		{
			Name: "password", Label: "Password", Type: TypeString,
			Rules: []Rule{
				MinLen(PasswordMinLen, "Password must be at least 6 characters"),
				MaxLen(PasswordMaxLen, "Password must be at most 50 characters"),
				MaxBytes(PasswordMaxBytes, "Password must be at most 72 bytes"),
			},
		},
	}
}

func nameField() Field {
	return Field{
		Name: "name", Label: "Name", Type: TypeString, Trim: true,
		Rules: []Rule{
			MinLen(2, "Name must be at least 2 characters long"),
			MaxLen(100, "Name cannot exceed 100 characters"),
		},
	}
}

func emailField() Field {
	return Field{
		Name: "email", Label: "Email", Type: TypeString, Trim: true, Lower: true,
		Rules: []Rule{Email("Invalid email address")},
	}
}

// phoneField is optional; an empty value counts as absent. The symbol and
// digit-count checks are reported separately.
func phoneField() Field {
	return Field{
		Name: "phone", Label: "Phone", Type: TypeString, Trim: true,
		Optional: true, EmptyIsAbsent: true,
		Rules: []Rule{
			Matches(phoneSymbols, "Phone number contains invalid characters"),
			DigitCount(10, 15, "Phone number must be between 10 and 15 digits"),
		},
	}
}

var (
	RegisterSchema = &Schema{Name: "register", Fields: credentialFields()}
	LoginSchema    = &Schema{Name: "login", Fields: credentialFields()}

	ContactSchema = &Schema{
		Name: "contact",
		Fields: []Field{
			nameField(),
			emailField(),
			phoneField(),
			{
				Name: "subject", Label: "Subject", Type: TypeString, Trim: true,
				Rules: []Rule{
					MinLen(5, "Subject must be at least 5 characters long"),
					MaxLen(200, "Subject cannot exceed 200 characters"),
				},
			},
			{
				Name: "message", Label: "Message", Type: TypeString, Trim: true,
				Rules: []Rule{
					MinLen(20, "Message must be at least 20 characters long"),
					MaxLen(2000, "Message cannot exceed 2000 characters"),
				},
			},
		},
	}

	PurchaseSchema = &Schema{
		Name: "purchase",
		Fields: []Field{
			nameField(),
			emailField(),
			phoneField(),
			{
				Name: "courseSlug", Label: "Course slug", Type: TypeString, Trim: true,
				Rules: []Rule{MinLen(1, "Course slug is required")},
			},
			{
				Name: "courseTitle", Label: "Course title", Type: TypeString, Trim: true,
				Rules: []Rule{
					MinLen(1, "Course title is required"),
					MaxLen(200, "Course title cannot exceed 200 characters"),
				},
			},
			{
				Name: "coursePrice", Label: "Course price", Type: TypeNumber,
				Rules: []Rule{Positive("Course price must be positive")},
			},
		},
	}
)

type Credentials struct {
	Email    string
	Password string
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type PurchaseInput struct {
	Name        string
	Email       string
	Phone       string
	CourseSlug  string
	CourseTitle string
	CoursePrice float64
}

func ParseRegister(body []byte) (Credentials, error) {
	return parseCredentials(RegisterSchema, body)
}

func ParseLogin(body []byte) (Credentials, error) {
	return parseCredentials(LoginSchema, body)
}

func parseCredentials(s *Schema, body []byte) (Credentials, error) {
	rec, err := s.Validate(body)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: rec.String("email"), Password: rec.String("password")}, nil
}

func ParseContact(body []byte) (ContactInput, error) {
	rec, err := ContactSchema.Validate(body)
	if err != nil {
		return ContactInput{}, err
	}
	return ContactInput{
		Name:    rec.String("name"),
		Email:   rec.String("email"),
		Phone:   rec.String("phone"),
		Subject: rec.String("subject"),
		Message: rec.String("message"),
	}, nil
}

func ParsePurchase(body []byte) (PurchaseInput, error) {
	rec, err := PurchaseSchema.Validate(body)
	if err != nil {
		return PurchaseInput{}, err
	}
	return PurchaseInput{
		Name:        rec.String("name"),
		Email:       rec.String("email"),
		Phone:       rec.String("phone"),
		CourseSlug:  rec.String("courseSlug"),
		CourseTitle: rec.String("courseTitle"),
		CoursePrice: rec.Number("coursePrice"),
	}, nil
}
