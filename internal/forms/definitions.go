package forms

const (
	UsernameTakenMsg = "This username is already in use."
	EmailTakenMsg    = "This email is already in use."
	NoAccountMsg     = "There is no account with that email."
)

var pictureExtensions = []string{"jpg", "png"}

func username(rules ...Rule) Field {
	return Field{
		Name:    "username",
		Label:   "Username",
		Filters: []Filter{TrimSpace},
		Rules:   append([]Rule{Required(), Length(5, 15)}, rules...),
	}
}

func email(rules ...Rule) Field {
	return Field{
		Name:    "email",
		Label:   "Email",
		Filters: []Filter{TrimSpace},
		Rules:   append([]Rule{Required(), Email()}, rules...),
	}
}

func password(name, label string, rules ...Rule) Field {
	return Field{
		Name:   name,
		Label:  label,
		Secret: true,
		Rules:  append([]Rule{Required(), Length(8, 20)}, rules...),
	}
}

func Registration(usernameTaken, emailTaken Lookup) Form {
	return Form{Fields: []Field{
		username(Unique(usernameTaken, UsernameTakenMsg)),
		email(Unique(emailTaken, EmailTakenMsg)),
		password("password", "Password"),
		password("confirm_password", "Confirm password", EqualTo("password")),
	}}
}

func Login() Form {
	return Form{Fields: []Field{
		email(),
		password("password", "Password"),
		{Name: "remember", Label: "Remember me"},
	}}
}

// UpdateAccount checks uniqueness only for values that differ from the
// account's current ones.
func UpdateAccount(currentUsername, currentEmail string, usernameTaken, emailTaken Lookup) Form {
	return Form{Fields: []Field{
		username(UniqueUnlessUnchanged(currentUsername, usernameTaken, UsernameTakenMsg)),
		email(UniqueUnlessUnchanged(currentEmail, emailTaken, EmailTakenMsg)),
		{Name: "picture", Label: "Update profile picture", Rules: []Rule{FileAllowed(pictureExtensions...)}},
	}}
}

func Post() Form {
	return Form{Fields: []Field{
		{Name: "title", Label: "Title", Filters: []Filter{StripTags, TrimSpace}, Rules: []Rule{Required(), Length(1, 100)}},
		{Name: "content", Label: "Content", Filters: []Filter{SanitizeHTML, TrimSpace}, Rules: []Rule{Required()}},
	}}
}

func RequestReset(emailExists Lookup) Form {
	return Form{Fields: []Field{
		email(Exists(emailExists, NoAccountMsg)),
	}}
}

func ResetPassword() Form {
	return Form{Fields: []Field{
		password("password", "Password"),
		password("confirm_password", "Confirm password", EqualTo("password")),
	}}
}

// Checked reports whether a checkbox value was submitted as on.
func Checked(v string) bool {
	switch v {
	case "on", "true", "1", "y", "yes":
		return true
	}
	return false
}
