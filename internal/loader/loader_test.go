package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	internalconfig "github.com/smykla-skalski/uploadkit/internal/config"
	"github.com/smykla-skalski/uploadkit/internal/loader"
	"github.com/smykla-skalski/uploadkit/pkg/config"
)

const minimalJSON = `{
  "defaults": {"variant": "button"},
  "features": {"dragAndDrop": false, "preview": false, "progress": false}
}`

var errConnectionRefused = errors.New("connection refused")

var _ = Describe("Loader", func() {
	var (
		ctx    context.Context
		ctrl   *gomock.Controller
		remote *loader.MockFetcher
		l      *loader.Loader
		clock  *fakeClock
		tmpDir string
	)

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		remote = loader.NewMockFetcher(ctrl)
		clock = &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		tmpDir = GinkgoT().TempDir()

		var err error
		l, err = loader.New(loader.Options{HTTP: remote, Clock: clock.Now})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	writeFile := func(name, content string) string {
		path := filepath.Join(tmpDir, name)
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())

		return path
	}

	Describe("New", func() {
		It("rejects invalid options", func() {
			_, err := loader.New(loader.Options{Retries: -1})
			Expect(errors.Is(err, loader.ErrInvalidOptions)).To(BeTrue())
		})
	})

	Describe("Load", func() {
		DescribeTable("returns the defaults for empty sources",
			func(source any) {
				result := l.Load(ctx, source)
				Expect(result.OK()).To(BeTrue())
				Expect(result.Config).To(Equal(internalconfig.DefaultConfig()))
			},
			Entry("nil", nil),
			Entry("empty string", ""),
			Entry("blank string", "  \n\t"),
			Entry("nil typed config", (*config.FileUploadConfig)(nil)),
		)

		It("merges a minimal inline JSON config onto the defaults", func() {
			result := l.Load(ctx, minimalJSON)
			Expect(result.Errors).To(BeEmpty())
			Expect(result.Config.Defaults.Variant).To(Equal(config.VariantButton))
			Expect(result.Config.Features.DragAndDrop).To(BeFalse())
			Expect(result.Config.Labels.UploadText).To(Equal(internalconfig.DefaultLabelsConfig().UploadText))
		})

		It("falls back to the defaults on malformed JSON", func() {
			result := l.Load(ctx, "{ invalid json }")
			Expect(result.Config).To(Equal(internalconfig.DefaultConfig()))
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0].Path).To(Equal(config.PathRoot))
			Expect(result.Errors[0].Message).To(ContainSubstring("Invalid JSON"))
		})

		It("falls back to the defaults for invalid objects", func() {
			result := l.Load(ctx, map[string]any{
				"defaults":   map[string]any{"variant": "not-a-variant"},
				"animations": map[string]any{"duration": -5},
			})
			Expect(result.Config).To(Equal(internalconfig.DefaultConfig()))
			Expect(result.Errors).To(HaveLen(2))
			Expect(result.Errors[0].Path).To(Equal("defaults.variant"))
			Expect(result.Errors[1].Path).To(Equal("animations.duration"))
		})

		It("loads typed configurations", func() {
			cfg := internalconfig.DefaultConfig()
			cfg.Defaults.Size = config.SizeSmall

			result := l.Load(ctx, cfg)
			Expect(result.OK()).To(BeTrue())
			Expect(result.Config).To(Equal(cfg))
			Expect(result.Config).NotTo(BeIdenticalTo(cfg))
		})

		It("rejects sources that are not objects", func() {
			result := l.Load(ctx, []string{"a"})
			Expect(result.Config).To(Equal(internalconfig.DefaultConfig()))
			Expect(result.Errors[0].Message).To(Equal("Configuration must be an object"))
		})

		It("reads JSON files", func() {
			path := writeFile("upload.json", minimalJSON)

			result := l.Load(ctx, path)
			Expect(result.OK()).To(BeTrue())
			Expect(result.Config.Defaults.Variant).To(Equal(config.VariantButton))
		})

		It("reads TOML files", func() {
			path := writeFile("upload.toml", "[defaults]\nvariant = \"preview\"\nmaxFiles = 3\n")

			result := l.Load(ctx, path)
			Expect(result.Errors).To(BeEmpty())
			Expect(result.Config.Defaults.Variant).To(Equal(config.VariantPreview))
			Expect(result.Config.Defaults.MaxFiles).To(Equal(3))
		})

		It("reads YAML files", func() {
			path := writeFile("upload.yml", "styling:\n  theme: dark\n")

			result := l.Load(ctx, path)
			Expect(result.Errors).To(BeEmpty())
			Expect(result.Config.Styling.Theme).To(Equal(config.ThemeDark))
		})

		It("reports unreadable files as file errors", func() {
			result := l.Load(ctx, filepath.Join(tmpDir, "missing.json"))
			Expect(result.Config).To(Equal(internalconfig.DefaultConfig()))
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0].Path).To(Equal(config.PathFile))
			Expect(result.Errors[0].Message).To(ContainSubstring("missing.json"))
		})

		It("fetches remote sources", func() {
			remote.EXPECT().
				Fetch(ctx, "https://cdn.example.com/upload.json").
				Return([]byte(minimalJSON), nil)

			result := l.Load(ctx, "https://cdn.example.com/upload.json")
			Expect(result.OK()).To(BeTrue())
			Expect(result.Config.Defaults.Variant).To(Equal(config.VariantButton))
		})

		It("reports fetch failures as file errors", func() {
			remote.EXPECT().
				Fetch(gomock.Any(), "https://cdn.example.com/upload.json").
				Return(nil, errConnectionRefused)

			result := l.Load(ctx, "https://cdn.example.com/upload.json")
			Expect(result.Config).To(Equal(internalconfig.DefaultConfig()))
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0].Path).To(Equal(config.PathFile))
			Expect(result.Errors[0].Message).To(ContainSubstring("connection refused"))
		})

		DescribeTable("rejects numbers that integer fields cannot hold",
			func(source any, path, message string) {
				for _, result := range []loader.LoadResult{l.Load(ctx, source), l.LoadSync(source)} {
					Expect(result.Config).To(Equal(internalconfig.DefaultConfig()))
					Expect(result.Errors).To(HaveLen(1))
					Expect(result.Errors[0].Path).To(Equal(path))
					Expect(result.Errors[0].Message).To(Equal(message))
				}
			},
			Entry("huge size object",
				map[string]any{"defaults": map[string]any{"maxSize": 1e20}},
				"defaults.maxSize", "maxSize must be at most 9007199254740991"),
			Entry("huge file count JSON",
				`{"defaults": {"maxFiles": 1e19}}`,
				"defaults.maxFiles", "maxFiles must be at most 9007199254740991"),
			Entry("fractional size JSON",
				`{"validation": {"maxSize": 1.5}}`,
				"validation.maxSize", "maxSize must be a whole number"),
			Entry("fractional duration object",
				map[string]any{"animations": map[string]any{"duration": 1.5}},
				"animations.duration", "duration must be a whole number"),
		)
	})

	Describe("LoadSync", func() {
		It("returns a nil config for malformed inline JSON", func() {
			result := l.LoadSync("{ invalid json }")
			Expect(result.Config).To(BeNil())
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0].Message).To(ContainSubstring("Invalid JSON"))
		})

		It("loads inline JSON like Load", func() {
			Expect(l.LoadSync(minimalJSON)).To(Equal(l.Load(ctx, minimalJSON)))
		})

		It("does not touch the network", func() {
			result := l.LoadSync("https://cdn.example.com/upload.json")
			Expect(result.Config).To(Equal(internalconfig.DefaultConfig()))
			Expect(result.Errors[0].Path).To(Equal(config.PathFile))
		})
	})

	Describe("ReadFragment", func() {
		It("returns the document without defaults", func() {
			path := writeFile("partial.toml", "[defaults]\nmaxFiles = 3\n")

			fragment, err := l.ReadFragment(ctx, path)
			Expect(err).NotTo(HaveOccurred())
			Expect(fragment).To(Equal(map[string]any{
				"defaults": map[string]any{"maxFiles": float64(3)},
			}))
		})

		It("parses inline JSON", func() {
			fragment, err := l.ReadFragment(ctx, `{"styling": {"theme": "dark"}}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(fragment).To(HaveKey("styling"))
		})

		It("treats empty YAML documents as empty fragments", func() {
			fragment, err := l.ReadFragment(ctx, writeFile("empty.yaml", ""))
			Expect(err).NotTo(HaveOccurred())
			Expect(fragment).To(BeEmpty())
		})

		It("uses the remote fetcher for URLs", func() {
			remote.EXPECT().
				Fetch(ctx, "https://cdn.example.com/upload.json").
				Return([]byte(minimalJSON), nil)

			fragment, err := l.ReadFragment(ctx, "https://cdn.example.com/upload.json")
			Expect(err).NotTo(HaveOccurred())
			Expect(fragment).To(HaveKey("features"))
		})

		It("reports parse errors", func() {
			_, err := l.ReadFragment(ctx, writeFile("broken.yaml", "defaults: [unterminated"))
			Expect(err).To(MatchError(ContainSubstring("Invalid YAML")))
		})

		It("rejects documents that are not objects", func() {
			_, err := l.ReadFragment(ctx, writeFile("list.json", "[1, 2]"))
			Expect(errors.Is(err, internalconfig.ErrNotObject)).To(BeTrue())
		})
	})

	Describe("LoadWithCache", func() {
		It("serves the second load of a string from the cache", func() {
			first := l.LoadWithCache(ctx, minimalJSON, true)
			second := l.LoadWithCache(ctx, minimalJSON, true)

			Expect(first.FromCache).To(BeFalse())
			Expect(second.FromCache).To(BeTrue())
			Expect(second.Config).To(Equal(first.Config))
		})

		It("never caches failed loads", func() {
			first := l.LoadWithCache(ctx, "{ invalid json }", true)
			second := l.LoadWithCache(ctx, "{ invalid json }", true)

			Expect(first.FromCache).To(BeFalse())
			Expect(second.FromCache).To(BeFalse())
			Expect(l.Cache().Len()).To(BeZero())
		})

		It("bypasses the cache when disabled", func() {
			l.LoadWithCache(ctx, minimalJSON, true)

			result := l.LoadWithCache(ctx, minimalJSON, false)
			Expect(result.FromCache).To(BeFalse())
		})

		It("never caches object sources", func() {
			source := map[string]any{"defaults": map[string]any{"size": "lg"}}

			l.LoadWithCache(ctx, source, true)
			result := l.LoadWithCache(ctx, source, true)

			Expect(result.FromCache).To(BeFalse())
			Expect(l.Cache().Len()).To(BeZero())
		})

		It("reloads after the entry expires", func() {
			l.LoadWithCache(ctx, minimalJSON, true)
			clock.Advance(loader.DefaultCacheTTL)

			Expect(l.LoadWithCache(ctx, minimalJSON, true).FromCache).To(BeFalse())
		})

		It("fetches a remote source once for concurrent callers", func() {
			const (
				url     = "https://cdn.example.com/shared.json"
				callers = 8
			)

			var entered atomic.Int32

			release := make(chan struct{})

			remote.EXPECT().
				Fetch(gomock.Any(), url).
				DoAndReturn(func(context.Context, string) ([]byte, error) {
					<-release

					return []byte(minimalJSON), nil
				}).
				Times(1)

			var wg sync.WaitGroup

			results := make([]loader.LoadResult, callers)

			for i := range results {
				wg.Go(func() {
					defer GinkgoRecover()

					entered.Add(1)
					results[i] = l.LoadWithCache(ctx, url, true)
				})
			}

			Eventually(entered.Load).Should(BeEquivalentTo(callers))
			// Let every caller reach the shared load before the fetch returns.
			time.Sleep(50 * time.Millisecond)
			close(release)
			wg.Wait()

			for _, r := range results {
				Expect(r.OK()).To(BeTrue())
				Expect(r.Config.Defaults.Variant).To(Equal(config.VariantButton))
			}

			Expect(l.LoadWithCache(ctx, url, true).FromCache).To(BeTrue())
		})

		It("finishes a shared load when the first caller cancels", func() {
			const url = "https://cdn.example.com/cancel.json"

			cancelCtx, cancel := context.WithCancel(ctx)
			cancel()

			remote.EXPECT().
				Fetch(gomock.Any(), url).
				DoAndReturn(func(fetchCtx context.Context, _ string) ([]byte, error) {
					if err := fetchCtx.Err(); err != nil {
						return nil, err
					}

					return []byte(minimalJSON), nil
				})

			result := l.LoadWithCache(cancelCtx, url, true)
			Expect(result.OK()).To(BeTrue())
			Expect(l.Cache().Has(url)).To(BeTrue())
		})
	})
})

var _ = Describe("HTTPFetcher", func() {
	var server *httptest.Server

	BeforeEach(func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/ok.json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(minimalJSON))
		})
		mux.HandleFunc("/missing.json", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		server = httptest.NewServer(mux)
		DeferCleanup(server.Close)
	})

	It("returns the response body", func() {
		body, err := loader.NewHTTPFetcher(time.Second, 0).Fetch(context.Background(), server.URL+"/ok.json")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal(minimalJSON))
	})

	It("reports the status text of failed responses", func() {
		_, err := loader.NewHTTPFetcher(time.Second, 0).Fetch(context.Background(), server.URL+"/missing.json")
		Expect(errors.Is(err, loader.ErrFetchFailed)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("404 Not Found"))
	})

	It("feeds the loader end to end", func() {
		l, err := loader.New(loader.Options{HTTPTimeout: time.Second})
		Expect(err).NotTo(HaveOccurred())

		result := l.Load(context.Background(), server.URL+"/missing.json")
		Expect(result.Errors).To(HaveLen(1))
		Expect(result.Errors[0].Message).To(ContainSubstring("Not Found"))
	})
})

var _ = Describe("IsRemote", func() {
	DescribeTable("detects http URLs",
		func(location string, expected bool) {
			Expect(loader.IsRemote(location)).To(Equal(expected))
		},
		Entry("https", "https://example.com/c.json", true),
		Entry("http", "http://localhost:8080/c.json", true),
		Entry("relative path", "configs/upload.json", false),
		Entry("absolute path", "/etc/upload.json", false),
		Entry("file URL", "file:///etc/upload.json", false),
	)
})
