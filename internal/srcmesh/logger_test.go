package srcmesh

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = fmt.Sprintf(format, v...) })
	Logf("run %d", 7)
	assert.Equal(t, "run 7", got)

	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("muted %s", "line") })
	assert.Equal(t, "run 7", got)
}
