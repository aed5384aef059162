package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/shared/dto"
)

func TestFilterGroup_ToSql(t *testing.T) {
	tests := []struct {
		name     string
		group    dto.FilterGroup
		sql      string
		args     []any
		expected map[string]any
	}{
		{
			name:     "empty group",
			group:    dto.FilterGroup{},
			sql:      "",
			expected: map[string]any{},
		},
		{
			name: "equal and like joined with AND",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "status", Value: "SCHEDULED", Operator: dto.FilterOperatorEq, Table: "trips"},
					dto.Filter{Field: "description", Value: "visit", Operator: dto.FilterOperatorLike, Table: "trips"},
				},
			},
			sql:      "(trips.status = ? AND trips.description ILIKE ?)",
			args:     []any{"SCHEDULED", "%visit%"},
			expected: map[string]any{"status": "SCHEDULED", "description": "%visit%"},
		},
		{
			name: "or group uses argument names",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "by_username", Field: "username", Value: "alice", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "by_email", Field: "email", Value: "alice", Operator: dto.FilterOperatorEq},
				},
			},
			sql:      "(username = ? OR email = ?)",
			args:     []any{"alice", "alice"},
			expected: map[string]any{"by_username": "alice", "by_email": "alice"},
		},
		{
			name: "in, not equal and null checks",
			group: dto.FilterGroup{
				Filters: []any{
					dto.Filter{Field: "id", Value: []string{"t1", "t2"}, Operator: dto.FilterOperatorIn, Table: "trips"},
					dto.Filter{Field: "id", ArgName: "exclude", Value: "t3", Operator: dto.FilterOperatorNotEq, Table: "trips"},
					dto.Filter{Field: "avatar_url", Operator: dto.FilterIsNull},
				},
			},
			sql:      "(trips.id IN (?,?) AND trips.id <> ? AND avatar_url IS NULL)",
			args:     []any{"t1", "t2", "t3"},
			expected: map[string]any{"id": []string{"t1", "t2"}, "exclude": "t3", "avatar_url": nil},
		},
		{
			name: "nested group and unknown operator",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "start_date", Value: "2024-01-01", Operator: dto.FilterOperatorGreaterEq},
					dto.Filter{Field: "ignored", Value: 1, Operator: "between"},
					dto.FilterGroup{},
					dto.FilterGroup{
						Operator: dto.FilterGroupOperatorOr,
						Filters: []any{
							dto.Filter{Field: "end_date", Value: "2024-02-01", Operator: dto.FilterOperatorLessEq},
							dto.Filter{Field: "status = 'CANCELLED'", Operator: dto.FilterPlainQuery, Value: "status = 'CANCELLED'"},
						},
					},
				},
			},
			sql:      "(start_date >= ? AND (end_date <= ? OR (status = 'CANCELLED')))",
			args:     []any{"2024-01-01", "2024-02-01"},
			expected: map[string]any{"start_date": "2024-01-01", "ignored": 1, "end_date": "2024-02-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.group.ToSql()

			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.sql == "", tt.group.IsEmpty())
			assert.Equal(t, tt.expected, tt.group.Values())

			if len(tt.args) > 0 {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}
