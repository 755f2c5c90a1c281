package views

import (
	"strings"

	"github.com/kshzz24/scalable-chat-app/internal/schema"
	"github.com/kshzz24/scalable-chat-app/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoginView is the email/password form shown to guests.
type LoginView struct {
	*tview.Flex
	form     *tview.Form
	message  *tview.TextView
	onSubmit func(schema.LoginForm)
	onSwitch func()
}

// NewLoginView creates the login form.
func NewLoginView(theme *ui.Theme) *LoginView {
	v := &LoginView{}

	v.form = tview.NewForm().
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil)
	v.form.AddButton("Log In", func() {
		if v.onSubmit != nil {
			v.onSubmit(v.Form())
		}
	})
	v.form.AddButton("Sign Up", func() {
		if v.onSwitch != nil {
			v.onSwitch()
		}
	})
	v.form.SetBorder(true).
		SetTitle(" Log In ").
		SetTitleColor(theme.TitleColor).
		SetBorderColor(theme.BorderColor)

	v.message = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	v.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.form, 0, 1, true).
		AddItem(v.message, 3, 0, false)
	return v
}

// Form reads the current input values.
func (v *LoginView) Form() schema.LoginForm {
	return schema.LoginForm{
		Email:    v.form.GetFormItemByLabel("Email").(*tview.InputField).GetText(),
		Password: v.form.GetFormItemByLabel("Password").(*tview.InputField).GetText(),
	}
}

// SetOnSubmit sets the callback invoked with the form values.
func (v *LoginView) SetOnSubmit(fn func(schema.LoginForm)) { v.onSubmit = fn }

// SetOnSwitch sets the callback for navigating to the signup page.
func (v *LoginView) SetOnSwitch(fn func()) { v.onSwitch = fn }

// ShowErrors renders per-field validation messages.
func (v *LoginView) ShowErrors(errs schema.Errors) {
	v.message.SetText("[red]" + joinErrors(errs) + "[-]")
}

// ShowMessage renders a transient message below the form.
func (v *LoginView) ShowMessage(msg string) {
	v.message.SetText(msg)
}

// Reset clears the inputs and any message.
func (v *LoginView) Reset() {
	v.form.GetFormItemByLabel("Email").(*tview.InputField).SetText("")
	v.form.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
	v.message.SetText("")
}

// RegisterView is the signup form.
type RegisterView struct {
	*tview.Flex
	form     *tview.Form
	message  *tview.TextView
	onSubmit func(schema.RegisterForm)
	onSwitch func()
}

// NewRegisterView creates the signup form.
func NewRegisterView(theme *ui.Theme) *RegisterView {
	v := &RegisterView{}

	v.form = tview.NewForm().
		AddInputField("Username", "", 40, nil, nil).
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil).
		AddPasswordField("Confirm Password", "", 40, '*', nil)
	v.form.AddButton("Create Account", func() {
		if v.onSubmit != nil {
			v.onSubmit(v.Form())
		}
	})
	v.form.AddButton("Back to Log In", func() {
		if v.onSwitch != nil {
			v.onSwitch()
		}
	})
	v.form.SetBorder(true).
		SetTitle(" Sign Up ").
		SetTitleColor(theme.TitleColor).
		SetBorderColor(theme.BorderColor)

	v.message = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	v.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.form, 0, 1, true).
		AddItem(v.message, 3, 0, false)
	return v
}

// Form reads the current input values.
func (v *RegisterView) Form() schema.RegisterForm {
	return schema.RegisterForm{
		Username:        v.form.GetFormItemByLabel("Username").(*tview.InputField).GetText(),
		Email:           v.form.GetFormItemByLabel("Email").(*tview.InputField).GetText(),
		Password:        v.form.GetFormItemByLabel("Password").(*tview.InputField).GetText(),
		ConfirmPassword: v.form.GetFormItemByLabel("Confirm Password").(*tview.InputField).GetText(),
	}
}

// SetOnSubmit sets the callback invoked with the form values.
func (v *RegisterView) SetOnSubmit(fn func(schema.RegisterForm)) { v.onSubmit = fn }

// SetOnSwitch sets the callback for navigating back to login.
func (v *RegisterView) SetOnSwitch(fn func()) { v.onSwitch = fn }

// ShowErrors renders per-field validation messages.
func (v *RegisterView) ShowErrors(errs schema.Errors) {
	v.message.SetText("[red]" + joinErrors(errs) + "[-]")
}

// ShowMessage renders a transient message below the form.
func (v *RegisterView) ShowMessage(msg string) {
	v.message.SetText(msg)
}

func joinErrors(errs schema.Errors) string {
	parts := make([]string, 0, len(errs))
	for _, field := range []string{
		schema.FieldUsername, schema.FieldEmail,
		schema.FieldPassword, schema.FieldConfirmPassword,
	} {
		if msg, ok := errs[field]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, " / ")
}
