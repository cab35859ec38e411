package engine

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/etwodev/srvconf/pkg/handler"
	"github.com/panjf2000/gnet/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn implements the part of gnet.Conn the server touches.
type fakeConn struct {
	gnet.Conn
	ctx     any
	inbound []byte
	written []byte
	closed  bool
}

func (c *fakeConn) Context() any         { return c.ctx }
func (c *fakeConn) SetContext(ctx any)   { c.ctx = ctx }
func (c *fakeConn) RemoteAddr() net.Addr { return &net.TCPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 5555} }

func (c *fakeConn) Next(n int) ([]byte, error) {
	buf := c.inbound
	c.inbound = nil
	return buf, nil
}

func (c *fakeConn) Write(b []byte) (int, error) {
	c.written = append(c.written, b...)
	return len(b), nil
}

func (c *fakeConn) CloseWithCallback(gnet.AsyncCallback) error {
	c.closed = true
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestServer(t *testing.T, plan *Plan) (*Server, *clock) {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	srv := NewServer(plan, handler.Echo, zerolog.Nop(), m)
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	srv.now = clk.now
	return srv, clk
}

func testPlan() *Plan {
	return &Plan{
		Addrs:             []string{"tcp://127.0.0.1:0"},
		MaxConnections:    2,
		MaxConnectionRate: 100,
		ClientTimeout:     time.Second,
		ShutdownTimeout:   time.Second,
	}
}

func TestServer_MaxConnections(t *testing.T) {
	srv, _ := newTestServer(t, testPlan())

	a, b, c := &fakeConn{}, &fakeConn{}, &fakeConn{}
	_, action := srv.OnOpen(a)
	assert.Equal(t, gnet.None, action)
	_, action = srv.OnOpen(b)
	assert.Equal(t, gnet.None, action)
	_, action = srv.OnOpen(c)
	assert.Equal(t, gnet.Close, action)
	assert.Nil(t, c.ctx)

	// gnet calls OnClose for refused connections too
	srv.OnClose(c, nil)
	assert.Equal(t, int64(2), srv.Active())

	srv.OnClose(a, nil)
	assert.Equal(t, int64(1), srv.Active())
	_, action = srv.OnOpen(c)
	assert.Equal(t, gnet.None, action)

	assert.Equal(t, float64(3), testutil.ToFloat64(srv.metrics.Accepted))
	assert.Equal(t, float64(2), testutil.ToFloat64(srv.metrics.Active))
	assert.Equal(t, float64(1), testutil.ToFloat64(srv.metrics.Rejected.WithLabelValues(ReasonMaxConnections)))
}

func TestServer_ConnectionRate(t *testing.T) {
	plan := testPlan()
	plan.MaxConnections = 100
	plan.MaxConnectionRate = 1
	srv, clk := newTestServer(t, plan)

	_, action := srv.OnOpen(&fakeConn{})
	assert.Equal(t, gnet.None, action)
	_, action = srv.OnOpen(&fakeConn{})
	assert.Equal(t, gnet.Close, action)

	clk.t = clk.t.Add(time.Second)
	_, action = srv.OnOpen(&fakeConn{})
	assert.Equal(t, gnet.None, action)

	assert.Equal(t, float64(1), testutil.ToFloat64(srv.metrics.Rejected.WithLabelValues(ReasonRate)))
}

func TestServer_TrafficIsHandled(t *testing.T) {
	srv, _ := newTestServer(t, testPlan())

	c := &fakeConn{inbound: []byte("ping")}
	srv.OnOpen(c)
	assert.Equal(t, gnet.None, srv.OnTraffic(c))
	assert.Equal(t, []byte("ping"), c.written)
}

func TestServer_ClientTimeoutSweep(t *testing.T) {
	srv, clk := newTestServer(t, testPlan())

	quiet, talker := &fakeConn{}, &fakeConn{inbound: []byte("hi")}
	srv.OnOpen(quiet)
	srv.OnOpen(talker)
	srv.OnTraffic(talker)

	clk.t = clk.t.Add(500 * time.Millisecond)
	srv.OnTick()
	assert.False(t, quiet.closed)

	clk.t = clk.t.Add(500 * time.Millisecond)
	delay, action := srv.OnTick()
	assert.Equal(t, gnet.None, action)
	assert.Equal(t, 250*time.Millisecond, delay)
	assert.True(t, quiet.closed)
	assert.False(t, talker.closed)
	assert.Equal(t, float64(1), testutil.ToFloat64(srv.metrics.Rejected.WithLabelValues(ReasonClientTimeout)))
}

func TestServer_ZeroClientTimeoutDisablesSweep(t *testing.T) {
	plan := testPlan()
	plan.ClientTimeout = 0
	srv, clk := newTestServer(t, plan)

	c := &fakeConn{}
	srv.OnOpen(c)
	clk.t = clk.t.Add(time.Hour)
	srv.OnTick()
	assert.False(t, c.closed)
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, 10*time.Millisecond, sweepInterval(time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, sweepInterval(time.Second))
	assert.Equal(t, time.Second, sweepInterval(time.Minute))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	var already prometheus.AlreadyRegisteredError
	assert.True(t, errors.As(err, &already))
}
