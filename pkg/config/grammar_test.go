package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		input   string
		want    MaxConnections
		wantErr bool
	}{
		{input: "default", want: MaxConnections{}},
		{input: "0", want: MaxConnections{Kind: CountManual, N: 0}},
		{input: "42", want: MaxConnections{Kind: CountManual, N: 42}},
		{input: "abc", wantErr: true},
		{input: "-1", wantErr: true},
		{input: " 42", wantErr: true},
		{input: "Default", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCount[maxConnections](tt.input)
			if tt.wantErr {
				var iv *InvalidValueError
				require.True(t, errors.As(err, &iv))
				assert.Equal(t, "max-connections", iv.Field)
				assert.Equal(t, tt.input, iv.Got)
				assert.NotEmpty(t, iv.Site.File)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCount_FieldKeys(t *testing.T) {
	assert.Equal(t, "num-workers", NumWorkers{}.fieldKey())
	assert.Equal(t, "backlog", Backlog{}.fieldKey())
	assert.Equal(t, "max-connections", MaxConnections{}.fieldKey())
	assert.Equal(t, "max-connection-rate", MaxConnectionRate{}.fieldKey())
}

func TestCount_Manual(t *testing.T) {
	n, ok := Backlog{Kind: CountManual, N: 2048}.Manual()
	assert.True(t, ok)
	assert.Equal(t, uint64(2048), n)

	_, ok = Backlog{}.Manual()
	assert.False(t, ok)
}

func TestParseKeepAlive(t *testing.T) {
	tests := []struct {
		input   string
		want    KeepAlive
		wantErr bool
	}{
		{input: "default", want: KeepAlive{}},
		{input: "disabled", want: KeepAlive{Kind: KeepAliveDisabled}},
		{input: "os", want: KeepAlive{Kind: KeepAliveOS}},
		{input: "OS", want: KeepAlive{Kind: KeepAliveOS}},
		{input: "42 seconds", want: KeepAlive{Kind: KeepAliveSeconds, Seconds: 42}},
		{input: "0 seconds", want: KeepAlive{Kind: KeepAliveSeconds}},
		{input: "42", wantErr: true},
		{input: "-1 seconds", wantErr: true},
		{input: "42 milliseconds", wantErr: true},
		{input: "42  seconds", wantErr: true},
		{input: "Os", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKeepAlive(tt.input)
			if tt.wantErr {
				var iv *InvalidValueError
				require.True(t, errors.As(err, &iv))
				assert.Equal(t, "keep-alive", iv.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeepAlive_Duration(t *testing.T) {
	d, err := KeepAlive{Kind: KeepAliveSeconds, Seconds: 75}.Duration()
	require.NoError(t, err)
	assert.Equal(t, 75*time.Second, d)

	d, err = KeepAlive{Kind: KeepAliveOS}.Duration()
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = KeepAlive{Kind: KeepAliveSeconds, Seconds: 9300000000}.Duration()
	assert.True(t, errors.Is(err, ErrDurationOverflow))
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		input   string
		want    Timeout
		wantErr bool
	}{
		{input: "default", want: Timeout{}},
		{input: "42 seconds", want: Timeout{Unit: TimeoutSeconds, N: 42}},
		{input: "42 milliseconds", want: Timeout{Unit: TimeoutMilliseconds, N: 42}},
		{input: "42 minutes", wantErr: true},
		{input: "42", wantErr: true},
		{input: "seconds", wantErr: true},
		{input: "-5 seconds", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeout(tt.input)
			if tt.wantErr {
				var iv *InvalidValueError
				require.True(t, errors.As(err, &iv))
				assert.Equal(t, tt.input, iv.Got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeout_Duration(t *testing.T) {
	d, err := Timeout{Unit: TimeoutMilliseconds, N: 1500}.Duration()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = Timeout{Unit: TimeoutSeconds, N: 3}.Duration()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	d, err = Timeout{}.Duration()
	require.NoError(t, err)
	assert.Zero(t, d)
	assert.True(t, Timeout{}.IsDefault())
}

func TestTimeout_DurationOverflow(t *testing.T) {
	tests := []Timeout{
		{Unit: TimeoutSeconds, N: 9300000000},
		{Unit: TimeoutMilliseconds, N: 18446744073709551615},
	}

	for _, to := range tests {
		t.Run(to.String(), func(t *testing.T) {
			_, err := to.Duration()
			assert.True(t, errors.Is(err, ErrDurationOverflow))
			assert.ErrorContains(t, err, to.String())
		})
	}

	// the largest whole number of seconds that still fits
	d, err := Timeout{Unit: TimeoutSeconds, N: 9223372036}.Duration()
	require.NoError(t, err)
	assert.Equal(t, 9223372036*time.Second, d)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("production")
	require.NoError(t, err)
	assert.Equal(t, Production, m)

	m, err = ParseMode("development")
	require.NoError(t, err)
	assert.Equal(t, Development, m)

	for _, input := range []string{"Production", "prod", "", "staging"} {
		_, err := ParseMode(input)
		var iv *InvalidValueError
		require.True(t, errors.As(err, &iv), input)
		assert.Equal(t, "mode", iv.Field)
		assert.Equal(t, `"development" | "production"`, iv.Expected)
	}
}

// TestGrammar_RoundTrip checks that every rendered value parses back to
// itself, so a template written from a Settings value is always loadable.
func TestGrammar_RoundTrip(t *testing.T) {
	counts := []NumWorkers{{}, {Kind: CountManual, N: 0}, {Kind: CountManual, N: 12}}
	for _, c := range counts {
		got, err := Parse[NumWorkers](c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	keepAlives := []KeepAlive{{}, {Kind: KeepAliveDisabled}, {Kind: KeepAliveOS}, {Kind: KeepAliveSeconds, Seconds: 9}}
	for _, k := range keepAlives {
		got, err := Parse[KeepAlive](k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	timeouts := []Timeout{{}, {Unit: TimeoutMilliseconds, N: 5}, {Unit: TimeoutSeconds, N: 5}}
	for _, to := range timeouts {
		got, err := Parse[Timeout](to.String())
		require.NoError(t, err)
		assert.Equal(t, to, got)
	}

	for _, m := range []Mode{Development, Production} {
		got, err := Parse[Mode](m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestSet_LeavesValueOnError(t *testing.T) {
	k := KeepAlive{Kind: KeepAliveOS}
	require.Error(t, k.Set("forever"))
	assert.Equal(t, KeepAlive{Kind: KeepAliveOS}, k)

	to := Timeout{Unit: TimeoutSeconds, N: 1}
	require.Error(t, to.Set("1 hour"))
	assert.Equal(t, Timeout{Unit: TimeoutSeconds, N: 1}, to)
}
