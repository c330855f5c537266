package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"wallet"})

	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	address := strings.TrimSpace(strings.TrimPrefix(lines[0], "Address:"))
	assert.True(t, common.IsHexAddress(address))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(lines[1], "Private key:")), "0x"))
}

func TestCheckIntervalHasFloor(t *testing.T) {
	assert.Equal(t, time.Second, checkInterval(60*time.Microsecond))
	assert.Equal(t, time.Second, checkInterval(0))
	assert.Equal(t, time.Minute, checkInterval(time.Minute))
}
