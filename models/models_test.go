package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "low", want: PriorityLow},
		{in: "URGENT", want: PriorityUrgent},
		{in: " high ", want: PriorityHigh},
		{in: "critical", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	st, err := ParseStatus("in_progress")
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, st)

	_, err = ParseStatus("done")
	require.ErrorContains(t, err, "invalid status")
}

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	for i, p := range Priorities {
		require.Equal(t, i, p.Rank())
	}
	require.Equal(t, PriorityMedium.Rank(), Priority("weird").Rank())
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-01-07T00:00:00Z", "2025-01-07T00:00:00", "2025-01-07 00:00:00", "2025-01-07"} {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		require.True(t, want.Equal(got), in)
	}
	_, err := ParseTime("next tuesday")
	require.Error(t, err)
}

func TestSortableSort(t *testing.T) {
	t.Parallel()

	allowed := map[string]bool{"title": true, "created_at": true}
	require.Equal(t, "created_at desc", (*Sortable)(nil).Sort(allowed, "created_at"))
	require.Equal(t, "title asc", (&Sortable{SortField: "title", SortOrder: "ASC"}).Sort(allowed, "created_at"))
	require.Equal(t, "created_at desc", (&Sortable{SortField: "1; drop table todos", SortOrder: "asc; --"}).Sort(allowed, "created_at"))
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	verr := NewValidationError()
	require.NoError(t, verr.OrNil())

	verr.Add("title", "must not be empty")
	verr.Add("title", "second message is ignored")
	verr.Add("priority", "invalid")
	require.Error(t, verr.OrNil())
	require.Equal(t, "must not be empty", verr.Details["title"])
	require.Equal(t, "invalid request data: priority: invalid; title: must not be empty", verr.Error())
}
