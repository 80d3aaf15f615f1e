package main

import (
	"errors"
	"testing"

	"github.com/centsible/centsible/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendlyError_PreservesSentinels(t *testing.T) {
	// A UserError carries the readable message but stays matchable.
	err := common.NewUserError("No expense with id nope", common.ErrNotFound)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Contains(t, err.Error(), "No expense")

	assert.True(t, errors.Is(friendlyError(common.ErrRateLimited), common.ErrRateLimited))
	assert.True(t, errors.Is(friendlyError(common.ErrStorageFull), common.ErrStorageFull))
}

func TestParseAmountArg(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  int64
		valid bool
	}{
		{name: "plain", raw: "12.50", want: 1250, valid: true},
		{name: "comma separator", raw: "12,50", want: 1250, valid: true},
		{name: "currency symbol stripped", raw: "$12.50", want: 1250, valid: true},
		{name: "surrounding junk stripped", raw: "€ 8.00 ", want: 800, valid: true},
		{name: "zero", raw: "0", valid: false},
		{name: "not a number", raw: "lots", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cents, err := parseAmountArg(tt.raw)
			if !tt.valid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cents)
		})
	}
}
