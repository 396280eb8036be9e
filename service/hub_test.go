package service

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder(id string, deps []string, log *[]string, startErr error) *Func {
	return &Func{
		ID:   id,
		Deps: deps,
		OnStart: func() error {
			if startErr != nil {
				return startErr
			}
			*log = append(*log, "start:"+id)
			return nil
		},
		OnStop: func() error {
			*log = append(*log, "stop:"+id)
			return nil
		},
	}
}

func TestStartOrderFollowsDependencies(t *testing.T) {
	var log []string
	h := NewHub(nil)
	require.NoError(t, h.Register(recorder("game", []string{"audio", "terminal"}, &log, nil)))
	require.NoError(t, h.Register(recorder("terminal", nil, &log, nil)))
	require.NoError(t, h.Register(recorder("audio", nil, &log, nil)))

	order, err := h.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"audio", "terminal", "game"}, order)

	require.NoError(t, h.StartAll())
	require.NoError(t, h.StopAll())
	assert.Equal(t, []string{
		"start:audio", "start:terminal", "start:game",
		"stop:game", "stop:terminal", "stop:audio",
	}, log)
}

func TestStartFailureRollsBack(t *testing.T) {
	var log []string
	h := NewHub(nil)
	require.NoError(t, h.Register(recorder("a", nil, &log, nil)))
	require.NoError(t, h.Register(recorder("b", []string{"a"}, &log, errors.New("no device"))))

	err := h.StartAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no device")
	assert.Equal(t, []string{"start:a", "stop:a"}, log)
}

func TestRegistrationErrors(t *testing.T) {
	h := NewHub(nil)
	require.NoError(t, h.Register(&Func{ID: "a"}))
	assert.Error(t, h.Register(&Func{ID: "a"}))

	require.NoError(t, h.Register(&Func{ID: "b", Deps: []string{"missing"}}))
	_, err := h.Order()
	assert.Error(t, err)
}

func TestCycleDetected(t *testing.T) {
	h := NewHub(nil)
	require.NoError(t, h.Register(&Func{ID: "a", Deps: []string{"b"}}))
	require.NoError(t, h.Register(&Func{ID: "b", Deps: []string{"a"}}))
	assert.Error(t, h.StartAll())
}
