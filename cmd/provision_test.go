package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evctl/internal/provisioner"
)

func TestProvisionOutcome(t *testing.T) {
	tests := []struct {
		name    string
		res     provisioner.Result
		wantErr bool
	}{
		{
			name:    "empty registry exits clean",
			res:     provisioner.Result{},
			wantErr: false,
		},
		{
			name:    "all provisioned exits clean",
			res:     provisioner.Result{Provisioned: 3, Total: 3},
			wantErr: false,
		},
		{
			name:    "already running exits clean",
			res:     provisioner.Result{AlreadyRunning: 2, Total: 2},
			wantErr: false,
		},
		{
			name:    "partial failure exits non-zero",
			res:     provisioner.Result{Provisioned: 2, Failed: 1, Total: 3},
			wantErr: true,
		},
		{
			name:    "total failure exits non-zero",
			res:     provisioner.Result{Failed: 3, Total: 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := provisionOutcome(tt.res)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to provision")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
