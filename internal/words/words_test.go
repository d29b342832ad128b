package words_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/robalobadob/roulette/internal/words"
	"github.com/robalobadob/roulette/internal/words/mocks"
)

// fixedRand always picks the same index.
type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

func TestHTTPProviderFetchWord(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{"json array", http.StatusOK, `["chrysanthème"]`, "chrysanthème", false},
		{"plain text", http.StatusOK, "maison\n", "maison", false},
		{"server error", http.StatusInternalServerError, `["chat"]`, "", true},
		{"not found", http.StatusNotFound, ``, "", true},
		{"empty body", http.StatusOK, ``, "", true},
		{"empty array", http.StatusOK, `[]`, "", true},
		{"empty word", http.StatusOK, `[""]`, "", true},
		{"number", http.StatusOK, `[42]`, "", true},
		{"two words", http.StatusOK, `["pomme de terre"]`, "", true},
		{"malformed", http.StatusOK, `["chat"`, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Accept"); got != "application/json" {
					t.Errorf("unexpected Accept header %q", got)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			got, err := words.NewHTTPProvider(srv.URL, time.Second).FetchWord(context.Background())
			if tc.wantErr {
				if !errors.Is(err, words.ErrProvider) {
					t.Fatalf("expected ErrProvider, got %q, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchWord returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestHTTPProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := words.NewHTTPProvider(url, time.Second).FetchWord(context.Background()); !errors.Is(err, words.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestSourceUsesProviderWord(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().FetchWord(gomock.Any()).Return("  quintessence ", nil)

	s := words.NewSource(p, words.WithRand(fixedRand(0)), words.WithLogger(zerolog.Nop()))
	if got := s.Word(context.Background()); got != "quintessence" {
		t.Fatalf("got %q want quintessence", got)
	}
}

func TestSourceFallsBackOnProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().FetchWord(gomock.Any()).Return("", errors.New("connection refused"))
	p.EXPECT().FetchWord(gomock.Any()).Return("", nil)

	s := words.NewSource(p,
		words.WithRand(fixedRand(1)),
		words.WithFallback([]string{"chat", "chien", "livre"}),
		words.WithLogger(zerolog.Nop()),
	)
	for i := 0; i < 2; i++ {
		if got := s.Word(context.Background()); got != "chien" {
			t.Fatalf("call %d: got %q want chien", i, got)
		}
	}
}

func TestSourceTimesOutSlowProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().FetchWord(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	s := words.NewSource(p,
		words.WithRand(fixedRand(0)),
		words.WithFallback([]string{"xylophone"}),
		words.WithTimeout(20*time.Millisecond),
		words.WithLogger(zerolog.Nop()),
	)
	start := time.Now()
	if got := s.Word(context.Background()); got != "xylophone" {
		t.Fatalf("got %q want xylophone", got)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("Word blocked past its timeout")
	}
}

func TestSourceAbandonsProviderIgnoringContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().FetchWord(gomock.Any()).DoAndReturn(func(context.Context) (string, error) {
		<-release
		return "chat", nil
	})

	s := words.NewSource(p,
		words.WithRand(fixedRand(0)),
		words.WithFallback([]string{"xylophone"}),
		words.WithTimeout(20*time.Millisecond),
		words.WithLogger(zerolog.Nop()),
	)
	start := time.Now()
	if got := s.Word(context.Background()); got != "xylophone" {
		t.Fatalf("got %q want xylophone", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Word took %s with a 20ms timeout", elapsed)
	}
}

func TestSourceOffline(t *testing.T) {
	s := words.NewSource(nil, words.WithRand(fixedRand(4)), words.WithLogger(zerolog.Nop()))
	if got := s.Word(context.Background()); got != words.Fallback()[4] {
		t.Fatalf("got %q want %q", got, words.Fallback()[4])
	}
}

func TestFallbackList(t *testing.T) {
	list := words.Fallback()
	if len(list) < 40 {
		t.Fatalf("expected a few dozen fallback words, got %d", len(list))
	}
	for _, w := range []string{"bonjour", "bibliothèque", "ultraviolet"} {
		if !slices.Contains(list, w) {
			t.Errorf("fallback list is missing %q", w)
		}
	}
}

func TestReadWordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# custom list\nPomme\n\n  poire \nfruit de mer\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := words.ReadWordFile(path)
	if err != nil {
		t.Fatalf("ReadWordFile returned error: %v", err)
	}
	if !slices.Equal(got, []string{"pomme", "poire"}) {
		t.Fatalf("unexpected words: %v", got)
	}
}
