package state

import (
	"context"
	"errors"

	"automate-service/internal/demo"
	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"
	"automate-service/internal/gateway"
	xerrors "automate-service/internal/pkg/errors"
	"automate-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notification texts shown around sign-in.
const (
	msgDemoLogin    = "Demo Mode: Logged in (Local Storage)"
	msgSignedUp     = "Account created! Please login."
	msgLoggedIn     = "Logged in successfully."
	defaultDemoName = "Demo User"
)

// LoginRequest carries the sign-in form.
type LoginRequest struct {
	Role     account.Role
	Email    string
	Password string
	Name     string
	SignUp   bool
}

func (c *Container) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

// Bootstrap restores a persisted login and loads the session's data. It runs
// once per container; later calls return immediately.
func (c *Container) Bootstrap(ctx context.Context) {
	c.bootOnce.Do(func() {
		c.setLoading(true)
		defer c.setLoading(false)

		if c.gw == nil {
			c.restoreDemo(ctx)
		} else {
			c.restoreRemote(ctx)
		}
		c.Refresh(ctx)
	})
}

func (c *Container) restoreDemo(ctx context.Context) {
	snap, err := c.store.Load(ctx, c.sid)
	if err != nil {
		if !errors.Is(err, xerrors.ErrNoSession) {
			c.logger.Warn("failed to load stored session", zap.Error(err))
		}
		return
	}
	a, err := snap.Account()
	if err != nil {
		c.logger.Warn("stored session is unreadable", zap.Error(err))
		return
	}

	c.mu.Lock()
	c.current = a
	c.authenticated = true
	c.mu.Unlock()
}

func (c *Container) restoreRemote(ctx context.Context) {
	stored, err := c.store.LoadAuth(ctx, c.sid)
	if err != nil {
		if !errors.Is(err, xerrors.ErrNoSession) {
			c.logger.Warn("failed to load stored auth session", zap.Error(err))
		}
		return
	}
	live, err := c.gw.GetSession(ctx, stored)
	if err != nil {
		c.logger.Warn("session check failed", zap.Error(err))
		return
	}
	a := c.fetchProfile(ctx, live)

	c.mu.Lock()
	c.current = a
	c.authenticated = true
	c.authSession = live
	c.mu.Unlock()
}

// fetchProfile loads the profile for s, falling back to the demo user
// carrying s's id and email.
func (c *Container) fetchProfile(ctx context.Context, s *gateway.Session) account.Account {
	a, err := c.gw.FetchProfile(gateway.WithSession(ctx, s), s.UserID)
	if err != nil {
		c.logger.Warn("profile fetch failed, using fallback", zap.String("user_id", s.UserID), zap.Error(err))
		u := demo.User()
		u.ID = s.UserID
		u.Email = s.Email
		return u
	}
	return a
}

// Refresh reloads fleet, bookings and drivers for a signed-in session. In
// demo mode empty lists are seeded from fixtures. Remotely, failed fleet or
// driver fetches fall back to fixtures; a failed booking fetch keeps the
// current list.
func (c *Container) Refresh(ctx context.Context) {
	c.touch()
	c.mu.RLock()
	authenticated, s := c.authenticated, c.authSession
	c.mu.RUnlock()
	if !authenticated {
		return
	}

	if c.gw == nil {
		c.mu.Lock()
		if len(c.vehicles) == 0 {
			c.vehicles = demo.Vehicles()
		}
		if len(c.drivers) == 0 {
			c.drivers = demo.Drivers()
		}
		c.mu.Unlock()
		return
	}

	ctx = gateway.WithSession(ctx, s)
	var (
		vehicles []vehicle.Vehicle
		bookings []booking.Booking
		drivers  []account.Driver
		bookErr  error
		g        errgroup.Group
	)
	g.Go(func() error {
		v, err := c.gw.ListVehicles(ctx)
		if err != nil {
			c.logger.Warn("fetch cars failed", zap.Error(err))
			v = demo.Vehicles()
		}
		vehicles = v
		return nil
	})
	g.Go(func() error {
		bookings, bookErr = c.gw.ListBookings(ctx)
		if bookErr != nil {
			c.logger.Warn("fetch bookings failed", zap.Error(bookErr))
		}
		return nil
	})
	g.Go(func() error {
		d, err := c.gw.ListDrivers(ctx)
		if err != nil {
			c.logger.Warn("fetch drivers failed", zap.Error(err))
			d = demo.Drivers()
		}
		drivers = d
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	c.vehicles = vehicles
	c.drivers = drivers
	if bookErr == nil {
		c.bookings = bookings
	}
	c.mu.Unlock()
}

// Login signs in or signs up. The returned error's message is meant for
// display: gateway errors are passed through verbatim.
func (c *Container) Login(ctx context.Context, req LoginRequest) error {
	c.touch()
	if req.Password == "" {
		return xerrors.ErrPasswordRequired
	}
	if !req.Role.Valid() {
		req.Role = account.RoleUser
	}

	if c.gw == nil {
		c.loginDemo(ctx, req)
		return nil
	}

	if req.SignUp {
		err := c.gw.SignUp(ctx, gateway.SignUpRequest{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Role:     req.Role,
		})
		if err != nil {
			return err
		}
		c.notify(msgSignedUp)
		return nil
	}

	s, err := c.gw.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := c.store.SaveAuth(ctx, c.sid, s); err != nil {
		c.logger.Warn("failed to persist auth session", zap.Error(err))
	}
	a := c.fetchProfile(ctx, s)

	c.mu.Lock()
	c.current = a
	c.authenticated = true
	c.authSession = s
	c.mu.Unlock()

	c.logger.Info("signed in", zap.String("user_id", s.UserID), zap.String("role", string(a.Role())))
	c.notify(msgLoggedIn)
	c.Refresh(ctx)
	return nil
}

func (c *Container) loginDemo(ctx context.Context, req LoginRequest) {
	var a account.Account
	if req.Role == account.RoleDriver {
		a = demo.Drivers()[0]
	} else {
		p := demo.User().Profile
		p.Email = req.Email
		p.Name = req.Name
		if p.Name == "" {
			p.Name = defaultDemoName
		}
		a = account.New(req.Role, p)
	}

	c.mu.Lock()
	c.current = a
	c.authenticated = true
	c.vehicles = demo.Vehicles()
	c.drivers = demo.Drivers()
	c.mu.Unlock()

	if err := c.store.Save(ctx, c.sid, session.NewSnapshot(a)); err != nil {
		c.logger.Warn("failed to persist demo session", zap.Error(err))
	}
	c.logger.Info("demo sign-in", zap.String("role", string(a.Role())))
	c.notify(msgDemoLogin)
}

// Logout ends the session. The notification queue is left as is.
func (c *Container) Logout(ctx context.Context) {
	c.touch()
	c.mu.RLock()
	s := c.authSession
	c.mu.RUnlock()

	if c.gw != nil {
		if s != nil {
			if err := c.gw.SignOut(ctx, s); err != nil {
				c.logger.Warn("gateway sign-out failed", zap.Error(err))
			}
		}
		if err := c.store.ClearAuth(ctx, c.sid); err != nil {
			c.logger.Warn("failed to clear auth session", zap.Error(err))
		}
	} else if err := c.store.Clear(ctx, c.sid); err != nil {
		c.logger.Warn("failed to clear demo session", zap.Error(err))
	}

	c.mu.Lock()
	c.current = account.Anonymous()
	c.authenticated = false
	c.authSession = nil
	c.vehicles = nil
	c.bookings = nil
	c.drivers = nil
	c.mu.Unlock()

	c.sink.Publish(c.sid, Event{Type: EventLogout})
}
