package resource

type User struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) RecordID() ID { return u.ID }

// UserInput is the body of POST /user and PUT /user/{id}. A blank password
// is left out of the JSON so the server keeps the current one.
type UserInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
	Password string `json:"password,omitempty"`
}

// Roles lists the role names the API knows about.
var Roles = []string{"Admin", "Administrador", "Consulta", "Usuario", "Moderador"}

type UserSchema struct{}

var Users UserSchema

var UserKind = Kind{Name: "user", Plural: "users", Title: "User", Path: "/user"}

func (UserSchema) Kind() Kind { return UserKind }

func (UserSchema) Columns() []Column {
	return []Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 28},
		{Title: "Role", Width: 14},
	}
}

func (UserSchema) Cells(u User) []Cell {
	return []Cell{
		number(int64(u.ID)),
		text(u.Name),
		text(u.Email),
		RoleBadge(u.Role),
	}
}

func (UserSchema) Fields(mode Mode) []Field {
	roles := make([]Option, 0, len(Roles))
	for _, r := range Roles {
		roles = append(roles, Option{Value: r, Label: r})
	}
	password := Field{Name: "password", Label: "Password", Required: true, Secret: true}
	if mode == ModeUpdate {
		password.Required = false
		password.Placeholder = "Leave blank to keep current password"
	}
	return []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "email", Label: "Email", Required: true},
		{Name: "role", Label: "Role", Required: true, Options: roles},
		password,
	}
}

// FormFrom never carries the password back into the form.
func (UserSchema) FormFrom(u User) Form {
	return Form{
		FieldID:    u.ID.String(),
		"name":     u.Name,
		"email":    u.Email,
		"role":     u.Role,
		"password": "",
	}
}

func (UserSchema) Payload(f Form, mode Mode) (any, error) {
	in := UserInput{
		Name:     f.Get("name"),
		Email:    f.Get("email"),
		Role:     f.Get("role"),
		Password: f["password"],
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	if mode == ModeCreate && in.Password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required to create a new user"}
	}
	return in, nil
}
