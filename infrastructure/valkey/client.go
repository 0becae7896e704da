package valkey

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	valkeylib "github.com/valkey-io/valkey-go"
)

const (
	// DefaultConnectTimeout is the maximum time to wait for initial connection
	DefaultConnectTimeout = 5 * time.Second

	// DefaultCommandTimeout bounds every command sent through Do.
	DefaultCommandTimeout = 2 * time.Second

	// DefaultRedialInterval is the pause between two connection attempts of a
	// client created by Dial while the server is unreachable.
	DefaultRedialInterval = 10 * time.Second
)

// ErrUnavailable is returned while no connection to the server exists.
var ErrUnavailable = errors.New("valkey unavailable")

// Config holds the configuration for creating a Valkey client
type Config struct {
	Address        string
	Password       string
	DB             int
	KeyPrefix      string
	ConnectTimeout time.Duration // Optional, defaults to DefaultConnectTimeout
	CommandTimeout time.Duration // Optional, defaults to DefaultCommandTimeout
	RedialInterval time.Duration // Optional, defaults to DefaultRedialInterval
}

// Client wraps the valkey-go client with application-specific functionality.
// One Client is shared by every cache component of the process.
type Client struct {
	cfg            Config
	keyPrefix      string
	commandTimeout time.Duration

	mu    sync.RWMutex
	inner valkeylib.Client
	done  chan struct{}
	once  sync.Once
}

func newClient(cfg Config) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}
	if cfg.RedialInterval <= 0 {
		cfg.RedialInterval = DefaultRedialInterval
	}

	prefix := cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}

	return &Client{
		cfg:            cfg,
		keyPrefix:      prefix,
		commandTimeout: cfg.CommandTimeout,
		done:           make(chan struct{}),
	}
}

// NewClient creates a new Valkey client instance.
// The caller is responsible for calling Close() when done.
// Returns an error if the connection cannot be established within the timeout.
func NewClient(cfg Config) (*Client, error) {
	c := newClient(cfg)
	inner, err := c.connect()
	if err != nil {
		return nil, err
	}
	c.inner = inner
	return c, nil
}

// Dial creates a client that never fails on an unreachable server. Until a
// connection succeeds every command fails with ErrUnavailable, and the client
// keeps retrying in the background every RedialInterval.
func Dial(cfg Config) *Client {
	c := newClient(cfg)
	inner, err := c.connect()
	if err == nil {
		c.inner = inner
		return c
	}

	logrus.WithError(err).Warnf("[Valkey] %s unreachable, retrying every %v", cfg.Address, c.cfg.RedialInterval)
	go c.redial()
	return c
}

func (c *Client) connect() (valkeylib.Client, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{c.cfg.Address},
		SelectDB:    c.cfg.DB,
		Dialer:      net.Dialer{Timeout: c.cfg.ConnectTimeout},
	}
	if c.cfg.Password != "" {
		opts.Password = c.cfg.Password
	}

	inner, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	// Test connection with ping (with timeout to avoid hanging)
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ConnectTimeout)
	defer cancel()

	if err := inner.Do(ctx, inner.B().Ping().Build()).Error(); err != nil {
		inner.Close()
		return nil, fmt.Errorf("failed to ping valkey (timeout: %v): %w", c.cfg.ConnectTimeout, err)
	}
	return inner, nil
}

func (c *Client) redial() {
	ticker := time.NewTicker(c.cfg.RedialInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		inner, err := c.connect()
		if err != nil {
			logrus.WithError(err).Debugf("[Valkey] Still unreachable at %s", c.cfg.Address)
			continue
		}

		c.mu.Lock()
		select {
		case <-c.done:
			c.mu.Unlock()
			inner.Close()
			return
		default:
		}
		c.inner = inner
		c.mu.Unlock()
		logrus.Infof("[Valkey] Connected to %s", c.cfg.Address)
		return
	}
}

// Conn returns the underlying valkey-go client, or ErrUnavailable while the
// server has not been reached yet.
func (c *Client) Conn() (valkeylib.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.inner == nil {
		return nil, ErrUnavailable
	}
	return c.inner, nil
}

// Do runs cmd bounded by the configured command timeout.
// The caller's deadline wins when it is shorter. cmd must come from a
// connection returned by Conn.
func (c *Client) Do(ctx context.Context, cmd valkeylib.Completed) valkeylib.ValkeyResult {
	ctx, cancel := context.WithTimeout(ctx, c.commandTimeout)
	defer cancel()

	c.mu.RLock()
	inner := c.inner
	c.mu.RUnlock()
	return inner.Do(ctx, cmd)
}

// Close closes the Valkey connection and stops reconnecting.
func (c *Client) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		close(c.done)
		if c.inner != nil {
			c.inner.Close()
		}
	})
}

// Key constructs a prefixed key from the given parts.
// Example: Key("article", "5") -> "article:5" (no global prefix configured)
func (c *Client) Key(parts ...string) string {
	if len(parts) == 0 {
		return strings.TrimSuffix(c.keyPrefix, ":")
	}
	return c.keyPrefix + strings.Join(parts, ":")
}

// KeyPrefix returns the configured key prefix.
func (c *Client) KeyPrefix() string {
	return c.keyPrefix
}

// Ping tests the connection to Valkey with a context for timeout control.
func (c *Client) Ping(ctx context.Context) error {
	conn, err := c.Conn()
	if err != nil {
		return err
	}
	return c.Do(ctx, conn.B().Ping().Build()).Error()
}

// IsConnected tests if the connection is healthy (uses a short timeout).
func (c *Client) IsConnected() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return c.Ping(ctx) == nil
}

// IsNil checks if an error returned by the client represents a Valkey NIL response.
func IsNil(err error) bool {
	return valkeylib.IsValkeyNil(err)
}
