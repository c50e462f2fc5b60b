package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/nelson/internal/keys"
	"github.com/zhubert/nelson/internal/ui/modals"
)

// AuthMode selects between signing in and creating an account.
type AuthMode int

const (
	AuthSignIn AuthMode = iota
	AuthSignUp
)

func (m AuthMode) String() string {
	if m == AuthSignUp {
		return "Sign Up"
	}
	return "Sign In"
}

// AuthSubmitMsg asks the app to run a sign-in or sign-up.
type AuthSubmitMsg struct {
	Mode     AuthMode
	Email    string
	Password string
}

// authValues lives on the heap so the huh inputs can bind to it.
type authValues struct {
	email    string
	password string
}

// AuthForm is the email/password gate shown until a user is signed in.
type AuthForm struct {
	mode    AuthMode
	values  *authValues
	form    *huh.Form
	pending bool
	loading bool
	err     string
	width   int
	height  int
}

// NewAuthForm creates the form in sign-in mode.
func NewAuthForm() *AuthForm {
	f := &AuthForm{values: &authValues{}}
	f.buildForm()
	return f
}

func (f *AuthForm) buildForm() {
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("you@hospital.org").
				CharLimit(modals.ModalInputCharLimit).
				Value(&f.values.email),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				CharLimit(modals.ModalInputCharLimit).
				Value(&f.values.password),
		),
	).
		WithTheme(modals.ModalTheme()).
		WithShowHelp(false).
		WithWidth(AuthFormWidth - 6)
	f.form.Init()
}

// SetSize sets the screen dimensions the form is centered in.
func (f *AuthForm) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// Mode returns the current mode.
func (f *AuthForm) Mode() AuthMode {
	return f.mode
}

// ToggleMode flips between sign-in and sign-up, clearing any error. The
// typed email is kept.
func (f *AuthForm) ToggleMode() {
	if f.mode == AuthSignIn {
		f.mode = AuthSignUp
	} else {
		f.mode = AuthSignIn
	}
	f.err = ""
}

// SetPending marks a submission as in flight.
func (f *AuthForm) SetPending(pending bool) {
	f.pending = pending
}

// IsPending reports whether a submission is in flight.
func (f *AuthForm) IsPending() bool {
	return f.pending
}

// SetLoading marks the initial session check as outstanding.
func (f *AuthForm) SetLoading(loading bool) {
	f.loading = loading
}

// SetError shows an inline error under the submit button.
func (f *AuthForm) SetError(msg string) {
	f.err = msg
}

// Error returns the inline error, if any.
func (f *AuthForm) Error() string {
	return f.err
}

// Reset clears the password and any error, ready for the next sign-in.
func (f *AuthForm) Reset() {
	email := f.values.email
	f.values = &authValues{email: email}
	f.pending = false
	f.err = ""
	f.buildForm()
}

// CanSubmit reports whether the submit control is enabled.
func (f *AuthForm) CanSubmit() bool {
	return !f.pending && !f.loading
}

// Submit validates the fields and returns the command that hands them to
// the app. It returns nil while submission is disabled.
func (f *AuthForm) Submit() tea.Cmd {
	if !f.CanSubmit() {
		return nil
	}
	email := strings.TrimSpace(f.values.email)
	password := f.values.password
	if email == "" || password == "" {
		f.err = "Email and password are required"
		return nil
	}
	f.err = ""
	f.pending = true
	msg := AuthSubmitMsg{Mode: f.mode, Email: email, Password: password}
	return func() tea.Msg { return msg }
}

// Update handles key input. Enter submits and ctrl+t switches mode; the rest
// goes to the huh form.
func (f *AuthForm) Update(msg tea.Msg) (*AuthForm, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Enter:
			return f, f.Submit()
		case keys.CtrlT:
			if !f.pending {
				f.ToggleMode()
			}
			return f, nil
		case keys.Escape:
			return f, nil
		}
	}

	m, cmd := f.form.Update(msg)
	if form, ok := m.(*huh.Form); ok {
		f.form = form
	}
	return f, cmd
}

// View renders the centered form.
func (f *AuthForm) View() string {
	var sb strings.Builder

	title := "Sign In"
	subtitle := "Welcome back to NelsonGPT"
	if f.mode == AuthSignUp {
		title = "Create Account"
		subtitle = "Join NelsonGPT"
	}
	sb.WriteString(ModalTitleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(SplashTaglineStyle.Render(subtitle))
	sb.WriteString("\n\n")
	sb.WriteString(f.form.View())
	sb.WriteString("\n\n")

	label := f.mode.String()
	if f.pending || f.loading {
		label = "Loading..."
	}
	button := AuthButtonStyle
	if !f.CanSubmit() {
		button = button.Background(ColorTextMuted)
	}
	sb.WriteString(button.Render(label))

	if f.err != "" {
		sb.WriteString("\n\n")
		sb.WriteString(StatusErrorStyle.Render(f.err))
	}

	sb.WriteString("\n\n")
	link := "Need an account? Sign Up"
	if f.mode == AuthSignUp {
		link = "Already have an account? Sign In"
	}
	sb.WriteString(AuthLinkStyle.Render(link))
	sb.WriteString(" ")
	sb.WriteString(FooterDescStyle.Render("(ctrl+t)"))

	box := AuthBoxStyle.Render(sb.String())
	if f.width <= 0 || f.height <= 0 {
		return box
	}
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, box)
}
