package router

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigHappyPath(t *testing.T) {
	src := `
# router.init
connection.type          = tcpip
connection.enable.tcpip  = true
connection.name.tcpip    = mcrouter
connection.address.tcpip = 10.0.0.5
connection.port.tcpip    = 9090
some.unknown.key         = ignored
`
	cfg, err := ParseConfig(bufio.NewScanner(strings.NewReader(src)))
	require.NoError(t, err)
	assert.Equal(t, "tcpip", cfg.ConnectionType)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "mcrouter", cfg.ConnectionName)
	assert.Equal(t, "10.0.0.5", cfg.Address)
	assert.Equal(t, uint16(9090), cfg.Port)
}

func TestParseConfigDefaultsWhenTypeMissing(t *testing.T) {
	cfg, err := ParseConfig(bufio.NewScanner(strings.NewReader("connection.enable.tcpip = true\n")))
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, defaultAddress, cfg.Address)
	assert.Equal(t, defaultPort, cfg.Port)
}

func TestParseConfigRejectsUnknownType(t *testing.T) {
	_, err := ParseConfig(bufio.NewScanner(strings.NewReader("connection.type = udp\n")))
	assert.Error(t, err)
}

func TestParseConfigRejectsMalformedLine(t *testing.T) {
	_, err := ParseConfig(bufio.NewScanner(strings.NewReader("not-a-key-value-line\n")))
	assert.Error(t, err)
}
