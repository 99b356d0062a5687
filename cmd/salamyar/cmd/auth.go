package cmd

import (
	"bufio"
	"fmt"
	"io"
	"salamyar/lib/platforms/authapi"
	"salamyar/services/session"
	"strings"

	"github.com/spf13/cobra"
)

var (
	authUsername string
	authPhone    string
	authPassword string
	authConfirm  string
)

func init() {
	authLoginCmd.Flags().StringVarP(&authUsername, "username", "u", "", "username")
	authLoginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "password, prompted for when empty")

	authRegisterCmd.Flags().StringVarP(&authUsername, "username", "u", "", "username")
	authRegisterCmd.Flags().StringVar(&authPhone, "phone", "", "phone number")
	authRegisterCmd.Flags().StringVarP(&authPassword, "password", "p", "", "password, prompted for when empty")
	authRegisterCmd.Flags().StringVar(&authConfirm, "confirm", "", "password confirmation, prompted for when empty")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "The 'auth' subcommand signs in, registers and signs out.",
}

// prompter asks for values that were not given as flags.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) prompter {
	return prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

func (p prompter) fill(value *string, label string) error {
	if *value != "" {
		return nil
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	*value = strings.TrimSpace(line)
	return nil
}

func reportSession() error {
	app.Render.Error(app.Session.State().Error)
	return errReported
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Signs in and remembers the session token.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrompter(cmd)
		for _, field := range []struct {
			value *string
			label string
		}{
			{&authUsername, "نام کاربری"},
			{&authPassword, "رمز عبور"},
		} {
			if err := p.fill(field.value, field.label); err != nil {
				return err
			}
		}

		ok := app.Session.Login(cmd.Context(), authapi.LoginRequest{
			Username: authUsername,
			Password: authPassword,
		})
		if !ok {
			return reportSession()
		}
		app.Render.User(app.Session.State().User)
		return nil
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Creates an account and signs in.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrompter(cmd)
		for _, field := range []struct {
			value *string
			label string
		}{
			{&authUsername, "نام کاربری"},
			{&authPhone, "شماره تلفن"},
			{&authPassword, "رمز عبور"},
			{&authConfirm, "تکرار رمز عبور"},
		} {
			if err := p.fill(field.value, field.label); err != nil {
				return err
			}
		}

		if err := session.CheckPasswords(authPassword, authConfirm); err != nil {
			app.Render.Error(err.Error())
			return errReported
		}
		ok := app.Session.Register(cmd.Context(), authapi.RegisterRequest{
			Username: authUsername,
			Phone:    authPhone,
			Password: authPassword,
		})
		if !ok {
			return reportSession()
		}
		app.Render.User(app.Session.State().User)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Signs out and forgets the session token.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app.Session.Logout(cmd.Context())
		app.Render.User(nil)
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Prints the signed in user.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app.Render.User(app.Session.State().User)
	},
}
