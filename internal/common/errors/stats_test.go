package errors

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatistics_RecordAndSnapshot(t *testing.T) {
	s := NewStatistics()
	netErr := NewNetworkError("down", 0, "")
	valErr := NewValidationError("name", nil, "required")

	for i := 0; i < 3; i++ {
		s.Record(netErr)
	}
	s.Record(valErr)

	snap := s.Snapshot()
	assert.Equal(t, 3, snap["NetworkError:NETWORK_ERROR"])
	assert.Equal(t, 1, snap["ValidationError:VALIDATION_ERROR"])
}

func TestStatistics_SnapshotIsACopy(t *testing.T) {
	s := NewStatistics()
	s.Record(New("boom"))

	snap := s.Snapshot()
	snap["PluginError:PLUGIN_ERROR"] = 999
	snap["injected"] = 1

	fresh := s.Snapshot()
	assert.Equal(t, 1, fresh["PluginError:PLUGIN_ERROR"])
	_, ok := fresh["injected"]
	assert.False(t, ok)
}

func TestStatistics_Reset(t *testing.T) {
	s := NewStatistics()
	s.Record(New("boom"))
	s.Record(NewNetworkError("down", 0, ""))

	s.Reset()
	assert.Empty(t, s.Snapshot())

	// Recording keeps working after a reset.
	s.Record(New("boom"))
	assert.Equal(t, 1, s.Snapshot()["PluginError:PLUGIN_ERROR"])
}

func TestStatistics_ConcurrentRecord(t *testing.T) {
	s := NewStatistics()
	err := NewServiceError("llm", "busy")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.Record(err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, s.Snapshot()["ServiceError:SERVICE_ERROR"])
}
