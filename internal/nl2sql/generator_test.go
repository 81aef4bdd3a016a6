package nl2sql

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"tmsbot/internal/llm"
	"tmsbot/internal/nl2sql/mocks"
)

func TestGenerator_Generate(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "how many batches on the date 20240314?"},
		{Role: llm.RoleAssistant, Content: "There were 3 batches."},
		{Role: llm.RoleUser, Content: "and how many transactions?"},
	}
	schemas := "Table: PSGTMS.BATCHFILE\nColumns: BatchNo, TotalTrans, ProcessDate"

	tests := []struct {
		name    string
		reply   string
		callErr error
		want    string
		wantErr error
	}{
		{
			name:  "plain sql",
			reply: "SELECT SUM(TotalTrans) FROM PSGTMS.BATCHFILE;",
			want:  "SELECT SUM(TotalTrans) FROM PSGTMS.BATCHFILE;",
		},
		{
			name:  "fenced sql",
			reply: "```sql\nSELECT 1\n```",
			want:  "SELECT 1",
		},
		{
			name:  "bare fence",
			reply: "  ```\nSELECT 2\n```  ",
			want:  "SELECT 2",
		},
		{
			name:    "model reports error",
			reply:   "Error: no table holds that information",
			wantErr: ErrCannotAnswer,
		},
		{
			name:    "empty completion",
			reply:   "   ",
			wantErr: ErrEmptyCompletion,
		},
		{
			name:    "call failure",
			callErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			completer := mocks.NewMockCompleter(ctrl)
			completer.EXPECT().
				ChatWithMessages(gomock.Any(), gomock.Any(), llm.ChatParams{MaxTokens: 500, Temperature: 0}).
				DoAndReturn(func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
					if len(messages) != len(history)+1 {
						t.Fatalf("messages len = %d, want %d", len(messages), len(history)+1)
					}
					system := messages[0].Content
					if !strings.Contains(system, "The current date is 2024-03-15") {
						t.Errorf("system prompt missing current date")
					}
					if !strings.Contains(system, schemas) {
						t.Errorf("system prompt missing schemas")
					}
					if messages[len(messages)-1] != history[len(history)-1] {
						t.Errorf("last message = %+v, want latest question", messages[len(messages)-1])
					}
					return tt.reply, tt.callErr
				})

			g := NewGenerator(completer)
			g.now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }

			got, err := g.Generate(context.Background(), history, schemas)
			switch {
			case tt.callErr != nil:
				if !errors.Is(err, tt.callErr) {
					t.Fatalf("Generate() error = %v, want wrapping %v", err, tt.callErr)
				}
				return
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Generate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripMarkdownSQL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "SELECT 1", want: "SELECT 1"},
		{in: "\n SELECT 1 \n", want: "SELECT 1"},
		{in: "```sql\nSELECT 1;\n```", want: "SELECT 1;"},
		{in: "```tsql\nSELECT 1;\n```", want: "SELECT 1;"},
		{in: "```\nSELECT 1;\n```", want: "SELECT 1;"},
	}

	for _, tt := range tests {
		if got := stripMarkdownSQL(tt.in); got != tt.want {
			t.Errorf("stripMarkdownSQL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
