package database

import (
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"

	"github.com/yishak-cs/cartrec/internal/store"
)

func TestMapConstraintError(t *testing.T) {
	const violation = "Neo.ClientError.Schema.ConstraintValidationFailed"
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "license key",
			err:  &neo4j.Neo4jError{Code: violation, Msg: "Node(12) already exists with label `SoftwareLicense` and property `license_key` = 'ABC'"},
			want: store.ErrDuplicateKey,
		},
		{
			name: "product id",
			err:  &neo4j.Neo4jError{Code: violation, Msg: "Node(7) already exists with label `Product` and property `id` = 'b1'"},
			want: store.ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapConstraintError(tt.err), tt.want)
		})
	}

	assert.NoError(t, mapConstraintError(nil))
	other := mapConstraintError(errors.New("timeout"))
	assert.NotErrorIs(t, other, store.ErrDuplicateKey)
	assert.NotErrorIs(t, other, store.ErrDuplicateID)
}
