package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nescore/nescore/cartridge"
)

func TestExitCodeForMapsLoadResults(t *testing.T) {
	cases := []struct {
		result cartridge.LoadResult
		want   int
	}{
		{cartridge.NOT_FOUND, 2},
		{cartridge.INVALID, 3},
		{cartridge.UNSUPPORTED, 4},
	}

	for _, c := range cases {
		err := &cartridge.LoadError{Result: c.result}
		assert.Equal(t, c.want, exitCodeFor(err))
	}
}

func TestExitCodeForDefaultsToOneForOtherErrors(t *testing.T) {
	assert.Equal(t, 1, exitCodeFor(errors.New("boom")))
}

func TestLoadCartridgeReportsNotFound(t *testing.T) {
	_, err := loadCartridge("/nonexistent/path/to/a.nes")

	var lerr *cartridge.LoadError
	assert.ErrorAs(t, err, &lerr)
	assert.Equal(t, cartridge.NOT_FOUND, lerr.Result)
}
