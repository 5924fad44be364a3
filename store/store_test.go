package store

import (
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewest(t *testing.T) {
	rows := []StoredRow{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	tests := []struct {
		name     string
		limit    int
		expected []string
	}{
		{"no limit", 0, []string{"1", "2", "3"}},
		{"limit above count", 5, []string{"1", "2", "3"}},
		{"limit below count", 2, []string{"2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, r := range Newest(rows, tt.limit) {
				ids = append(ids, r.ID)
			}

			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestTableLocksSerializePerTable(t *testing.T) {
	var (
		locks   TableLocks
		wg      sync.WaitGroup
		counter int
	)

	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			unlock := locks.LockTable("t1")
			defer unlock()

			current := counter
			counter = current + 1
		}()
	}

	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestTableLocksIndependentTables(t *testing.T) {
	var locks TableLocks

	unlockA := locks.LockTable("a")
	defer unlockA()

	done := make(chan struct{})

	go func() {
		unlockB := locks.LockTable("b")
		unlockB()
		close(done)
	}()

	<-done
}
