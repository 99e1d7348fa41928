package core

import (
	"errors"
	"testing"
)

func TestValidateFileType(t *testing.T) {
	tests := []struct {
		name     string
		fileType FileType
		wantErr  error
	}{
		{name: "text", fileType: FileTypeText, wantErr: nil},
		{name: "pdf", fileType: FileTypePDF, wantErr: nil},
		{name: "image", fileType: FileTypeImage, wantErr: nil},
		{name: "unknown", fileType: FileTypeUnknown, wantErr: ErrInvalidFileType},
		{name: "empty", fileType: FileType(""), wantErr: ErrInvalidFileType},
		{name: "garbage", fileType: FileType("tarball"), wantErr: ErrInvalidFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileType(tt.fileType)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateScope(t *testing.T) {
	if err := ValidateScope(Scope{FlowID: "flow-1"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateScope(Scope{UserID: "alice", FlowID: "flow-1"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateScope(Scope{UserID: "alice"})
	if !errors.Is(err, ErrInvalidScope) {
		t.Errorf("got %v, want ErrInvalidScope", err)
	}
	if !errors.Is(err, ErrEmptyFlowID) {
		t.Errorf("got %v, want ErrEmptyFlowID", err)
	}
}
