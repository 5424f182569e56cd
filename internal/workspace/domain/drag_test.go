package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubSurface struct{ model *Model }

func (s *stubSurface) SetModel(m *Model) { s.model = m }
func (s *stubSurface) Model() *Model     { return s.model }
func (s *stubSurface) Dispose()          {}

func TestDragEnd_Validate(t *testing.T) {
	file := FileDescriptor{ID: "f1", Filename: "main.go"}
	target := &stubSurface{}
	fallback := &stubSurface{}

	tests := []struct {
		name        string
		end         DragEnd
		wantErr     bool
		wantSurface Surface
	}{
		{
			name:    "released outside target",
			end:     DragEnd{Active: FilePayload{File: file}},
			wantErr: true,
		},
		{
			name:    "no active payload",
			end:     DragEnd{Over: PaneTarget{Slot: 1, Surface: target}},
			wantErr: true,
		},
		{
			name:    "active payload is a pane",
			end:     DragEnd{Active: PaneTarget{Slot: 0}, Over: PaneTarget{Slot: 1, Surface: target}},
			wantErr: true,
		},
		{
			name:    "drop target is a file",
			end:     DragEnd{Active: FilePayload{File: file}, Over: FilePayload{File: file}},
			wantErr: true,
		},
		{
			name:    "missing file id",
			end:     DragEnd{Active: FilePayload{File: FileDescriptor{Filename: "a.go"}}, Over: PaneTarget{Slot: 1, Surface: target}},
			wantErr: true,
		},
		{
			name:    "missing filename",
			end:     DragEnd{Active: FilePayload{File: FileDescriptor{ID: "f1"}}, Over: PaneTarget{Slot: 1, Surface: target}},
			wantErr: true,
		},
		{
			name:    "slot out of range",
			end:     DragEnd{Active: FilePayload{File: file}, Over: PaneTarget{Slot: 3, Surface: target}},
			wantErr: true,
		},
		{
			name:    "no surface anywhere",
			end:     DragEnd{Active: FilePayload{File: file}, Over: PaneTarget{Slot: 2}},
			wantErr: true,
		},
		{
			name:        "target surface",
			end:         DragEnd{Active: FilePayload{File: file}, Over: PaneTarget{Slot: 1, Surface: target}},
			wantSurface: target,
		},
		{
			name: "surface from drag-start map",
			end: DragEnd{
				Active: FilePayload{File: file, Surfaces: map[SlotID]Surface{2: fallback}},
				Over:   PaneTarget{Slot: 2},
			},
			wantSurface: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drop, err := tt.end.Validate()
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrInvalidDragPayload), "error should wrap ErrInvalidDragPayload: %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, file, drop.File)
			require.Same(t, tt.wantSurface, drop.Surface)
		})
	}
}

func TestDragEnd_Validate_InvalidSlotWrapsBoth(t *testing.T) {
	end := DragEnd{Active: FilePayload{File: FileDescriptor{ID: "f", Filename: "f.txt"}}, Over: PaneTarget{Slot: -1}}
	_, err := end.Validate()
	require.ErrorIs(t, err, ErrInvalidDragPayload)
	require.ErrorIs(t, err, ErrInvalidSlot)
}
