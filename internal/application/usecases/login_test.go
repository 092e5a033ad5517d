package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/example/gymbook/internal/application/usecases"
	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/infrastructure/browser/snapshot"
	"github.com/example/gymbook/internal/infrastructure/logger"
	"github.com/example/gymbook/internal/internaltypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `<html><body><form>
<input id="mat-input-0"><input id="mat-input-1" type="password">
<button class="t_440877_login">Login</button>
</form></body></html>`

func newLogin(d booking.Driver) usecases.Login {
	return usecases.Login{
		Driver:         d,
		Selectors:      booking.DefaultSelectors(),
		URL:            loginURL,
		Username:       "student",
		Password:       "secret",
		Delay:          2 * time.Second,
		ElementTimeout: 10 * time.Second,
		Log:            logger.Discard(),
	}
}

func TestLogin_Accepted(t *testing.T) {
	d := snapshot.New()
	d.Route(loginURL, loginPage)
	d.OnClick = func(d *snapshot.Driver, _ *goquery.Selection) error {
		return d.SetHTML(`<html><body><nav>home</nav></body></html>`)
	}

	require.NoError(t, newLogin(d).Execute(context.Background()))
	assert.Equal(t, "student", d.Filled("input#mat-input-0"))
	assert.Equal(t, "secret", d.Filled("input#mat-input-1"))
	assert.Equal(t, []string{"Login"}, d.Clicks())
	assert.Equal(t, []time.Duration{2 * time.Second}, d.Sleeps())
}

func TestLogin_Rejected(t *testing.T) {
	d := snapshot.New()
	d.Route(loginURL, loginPage)
	d.OnClick = func(*snapshot.Driver, *goquery.Selection) error { return nil }

	err := newLogin(d).Execute(context.Background())
	assert.ErrorIs(t, err, internaltypes.ErrLoginRejected)
}

func TestLogin_MissingCredentials(t *testing.T) {
	l := newLogin(snapshot.New())
	l.Password = ""
	assert.ErrorIs(t, l.Execute(context.Background()), internaltypes.ErrMissingCredentials)
}

func TestLogin_FormMissing(t *testing.T) {
	d := snapshot.New()
	d.Route(loginURL, `<html><body>down for maintenance</body></html>`)

	err := newLogin(d).Execute(context.Background())
	assert.ErrorIs(t, err, booking.ErrElementTimeout)
}
