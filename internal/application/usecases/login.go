package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/internaltypes"
	"github.com/sirupsen/logrus"
)

type Login struct {
	Driver    booking.Driver
	Selectors booking.Selectors

	URL      string
	Username string
	Password string

	Delay          time.Duration
	ElementTimeout time.Duration

	Log logrus.FieldLogger
}

func (u Login) Execute(ctx context.Context) error {
	if u.Username == "" || u.Password == "" {
		return internaltypes.ErrMissingCredentials
	}
	log := orStandard(u.Log).WithField("phase", "authenticating")

	if err := u.Driver.Navigate(ctx, u.URL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if _, err := u.Driver.WaitFor(ctx, u.Selectors.LoginUsername, u.ElementTimeout); err != nil {
		return fmt.Errorf("wait for login form: %w", err)
	}
	if err := u.Driver.Fill(ctx, u.Selectors.LoginUsername, u.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if _, err := u.Driver.WaitFor(ctx, u.Selectors.LoginPassword, u.ElementTimeout); err != nil {
		return fmt.Errorf("wait for password field: %w", err)
	}
	if err := u.Driver.Fill(ctx, u.Selectors.LoginPassword, u.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	submit, err := u.Driver.WaitFor(ctx, u.Selectors.LoginSubmit, u.ElementTimeout)
	if err != nil {
		return fmt.Errorf("wait for submit: %w", err)
	}
	if err := submit.Click(ctx); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	if err := u.Driver.Sleep(ctx, u.Delay); err != nil {
		return err
	}

	if u.Selectors.LoginFailure != "" {
		still, err := u.Driver.QueryAll(ctx, u.Selectors.LoginFailure)
		if err != nil {
			return fmt.Errorf("check login: %w", err)
		}
		if len(still) > 0 {
			return internaltypes.ErrLoginRejected
		}
	}
	log.Info("logged in")
	return nil
}
