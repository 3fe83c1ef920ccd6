package mailer

import (
	"fmt"
	"strings"
	"text/template"
)

// Template names understood by the email worker.
const (
	TemplateWelcome        = "welcome"
	TemplateExternalSignin = "external_signin"
)

var bodies = map[string]*template.Template{
	TemplateWelcome: template.Must(template.New(TemplateWelcome).Parse(
		"Hi {{.FirstName}},\n\n" +
			"Welcome to {{.AppName}}! Your account {{.Email}} is ready.\n\n" +
			"If this wasn't you, please contact support.\n")),
	TemplateExternalSignin: template.Must(template.New(TemplateExternalSignin).Parse(
		"Hi {{.FirstName}},\n\n" +
			"Your {{.AppName}} account {{.Email}} was just created via {{.Provider}} sign-in.\n\n" +
			"If this wasn't you, please contact support.\n")),
}

var subjects = map[string]string{
	TemplateWelcome:        "Welcome to {{.AppName}}",
	TemplateExternalSignin: "New account created via {{.Provider}}",
}

// Render produces subject and text body for a named template.
func Render(name string, data map[string]any) (subject, text string, err error) {
	body, ok := bodies[name]
	if !ok {
		return "", "", fmt.Errorf("mailer: unknown template %q", name)
	}
	var b strings.Builder
	if err := body.Execute(&b, data); err != nil {
		return "", "", fmt.Errorf("mailer: rendering %s: %w", name, err)
	}
	subjTpl, err := template.New(name + "_subject").Parse(subjects[name])
	if err != nil {
		return "", "", err
	}
	var s strings.Builder
	if err := subjTpl.Execute(&s, data); err != nil {
		return "", "", fmt.Errorf("mailer: rendering %s subject: %w", name, err)
	}
	return s.String(), b.String(), nil
}
