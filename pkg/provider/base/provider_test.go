// Kumo: A resilient manga aggregation library and CLI.
// Copyright (C) 2026 The Kumo Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package base

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kumo/pkg/core"
	"Kumo/pkg/engine"
	"Kumo/pkg/engine/parser"
	"Kumo/pkg/errors"
)

// testSite is a minimal site bundle over fixture markup.
type testSite struct {
	base string
}

func (s *testSite) ExtractDetail(doc *goquery.Document) (*core.MangaDetail, error) {
	title := parser.Text(doc.Find("h1"))
	if title == "" {
		return nil, errors.MissingField("title")
	}
	detail := &core.MangaDetail{Manga: core.Manga{Title: title}}
	doc.Find("a.chapter").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			detail.Chapters = append(detail.Chapters, parser.ResolveURL(s.base, href))
		}
	})
	return detail, nil
}

func (s *testSite) ExtractListing(doc *goquery.Document) ([]core.Manga, error) {
	var items []core.Manga
	doc.Find("li.card").Each(func(_ int, sel *goquery.Selection) {
		items = append(items, core.Manga{Title: parser.Text(sel)})
	})
	return items, nil
}

func (s *testSite) ExtractChapter(doc *goquery.Document, url string) (*core.Chapter, error) {
	chapter := &core.Chapter{URL: url}
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := parser.Attr(sel, "src"); ok {
			chapter.Gallery = append(chapter.Gallery, src)
		}
	})
	return chapter, nil
}

func (s *testSite) ExtractMaxPage(doc *goquery.Document) int {
	n, _ := strconv.Atoi(parser.Text(doc.Find("span.max")))
	return n
}

func (s *testSite) SearchURL(query string, page int) string {
	return fmt.Sprintf("%s/search?q=%s&page=%d", s.base, query, page)
}

func (s *testSite) GenresSearchURL(genres []string, page int) string {
	return fmt.Sprintf("%s/genres/%s/page/%d", s.base, strings.Join(genres, "+"), page)
}

func (s *testSite) GenresPageURL() string {
	return s.base + "/tags"
}

func (s *testSite) ExtractGenres(doc *goquery.Document) ([]string, error) {
	var genres []string
	doc.Find("a.tag").Each(func(_ int, sel *goquery.Selection) {
		genres = append(genres, parser.Text(sel))
	})
	return genres, nil
}

func testEngine() *engine.Engine {
	return engine.NewWithConfig(core.SiteConfig{
		MaxConcurrent: 4,
		MaxRetries:    1,
		BackoffBase:   time.Millisecond,
		Timeout:       5 * time.Second,
	})
}

func newTestProvider(t *testing.T, baseURL string) (*Provider, *testSite) {
	t.Helper()
	site := &testSite{base: baseURL}
	p, err := New(testEngine(), Config{
		ID:      "tst",
		Name:    "Test Site",
		BaseURL: baseURL,
	}, site)
	require.NoError(t, err)
	return p, site
}

func TestNewRejectsBadWiring(t *testing.T) {
	e := testEngine()
	site := &testSite{base: "https://example.test"}

	_, err := New(e, Config{ID: "", BaseURL: "https://example.test"}, site)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))

	_, err = New(e, Config{ID: "tst", BaseURL: ""}, site)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))

	_, err = New(e, Config{ID: "tst", BaseURL: PlaceholderBaseURL}, site)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err), "the placeholder base URL must not pass validation")

	_, err = New(e, Config{ID: "tst", BaseURL: "https://example.test"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestGetMangaExtractsDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><h1>Fixture Manga</h1>`+
			`<a class="chapter" href="/ch/1">1</a><a class="chapter" href="/ch/2">2</a></html>`)
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	detail, err := p.GetManga(context.Background(), srv.URL+"/manga/1")
	require.NoError(t, err)

	assert.Equal(t, "Fixture Manga", detail.Title)
	assert.Equal(t, []string{srv.URL + "/ch/1", srv.URL + "/ch/2"}, detail.Chapters)
}

// chapterFixture serves a detail page with n chapters. Low-numbered chapters
// respond slowest so completion order is the reverse of publication order.
func chapterFixture(n int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/ch/") {
			num, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/ch/"))
			time.Sleep(time.Duration(n-num+1) * 20 * time.Millisecond)
			fmt.Fprintf(w, `<html><img src="https://cdn.example.net/%d-1.jpg">`+
				`<img src="https://cdn.example.net/%d-2.jpg"></html>`, num, num)
			return
		}
		fmt.Fprint(w, `<html><h1>Ordered</h1>`)
		for i := 1; i <= n; i++ {
			fmt.Fprintf(w, `<a class="chapter" href="/ch/%d">%d</a>`, i, i)
		}
		fmt.Fprint(w, `</html>`)
	}
}

func TestGetAggregatePreservesPublicationOrder(t *testing.T) {
	srv := httptest.NewServer(chapterFixture(4))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	aggregate, err := p.GetAggregate(context.Background(), srv.URL+"/manga/1")
	require.NoError(t, err)

	require.Len(t, aggregate.Chapters, 4)
	for i, chapter := range aggregate.Chapters {
		assert.Equal(t, fmt.Sprintf("%s/ch/%d", srv.URL, i+1), chapter.URL,
			"chapter %d out of order", i+1)
		assert.Len(t, chapter.Gallery, 2)
	}
	assert.Equal(t, "Ordered", aggregate.Title)
}

func TestGetAggregateSkipsAbsentChapters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ch/2":
			w.WriteHeader(http.StatusNotFound)
		case "/ch/1", "/ch/3":
			num := strings.TrimPrefix(r.URL.Path, "/ch/")
			fmt.Fprintf(w, `<html><img src="https://cdn.example.net/%s.jpg"></html>`, num)
		default:
			fmt.Fprint(w, `<html><h1>Gappy</h1>`+
				`<a class="chapter" href="/ch/1">1</a>`+
				`<a class="chapter" href="/ch/2">2</a>`+
				`<a class="chapter" href="/ch/3">3</a></html>`)
		}
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	aggregate, err := p.GetAggregate(context.Background(), srv.URL+"/manga/1")
	require.NoError(t, err)

	require.Len(t, aggregate.Chapters, 2)
	assert.Equal(t, srv.URL+"/ch/1", aggregate.Chapters[0].URL)
	assert.Equal(t, srv.URL+"/ch/3", aggregate.Chapters[1].URL)
}

func TestGetAggregatePropagatesExtractionFaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/ch/") {
			// A page with no images is a shape change, not an absence.
			fmt.Fprint(w, `<html><p>no gallery here</p></html>`)
			return
		}
		fmt.Fprint(w, `<html><h1>Broken</h1><a class="chapter" href="/ch/1">1</a></html>`)
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	_, err := p.GetAggregate(context.Background(), srv.URL+"/manga/1")
	require.Error(t, err)
	assert.True(t, errors.IsMissingField(err))
}

func TestGetChapterRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><img src="https://cdn.example.net/a.jpg"></html>`)
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	url := srv.URL + "/ch/9"
	chapter, err := p.GetChapter(context.Background(), url)
	require.NoError(t, err)

	assert.Equal(t, url, chapter.URL)
	assert.Equal(t, []string{"https://cdn.example.net/a.jpg"}, chapter.Gallery)
}

func TestSearchSessionUsesSiteURLs(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.String())
		fmt.Fprint(w, `<html><span class="max">2</span>`+
			`<ul><li class="card">hit one</li><li class="card">hit two</li></ul></html>`)
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	session, err := p.Search(context.Background(), "naruto")
	require.NoError(t, err)

	assert.Equal(t, 2, session.MaxPage())
	require.Len(t, queries, 1)
	assert.Equal(t, "/search?q=naruto&page=1", queries[0])

	items, err := session.NextPage(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "/search?q=naruto&page=2", queries[1])
}

func TestSearchByGenresSessionUsesSiteURLs(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `<html><ul><li class="card">tagged</li></ul></html>`)
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	session, err := p.SearchByGenres(context.Background(), []string{"fantasy", "isekai"})
	require.NoError(t, err)

	assert.Equal(t, 1, session.MaxPage())
	require.Len(t, paths, 1)
	assert.Equal(t, "/genres/fantasy+isekai/page/1", paths[0])
}

func TestGenres(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tags", r.URL.Path)
		fmt.Fprint(w, `<html><a class="tag">action</a><a class="tag">romance</a></html>`)
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	genres, err := p.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"action", "romance"}, genres)
}

func TestGetMangaSurfacesAbsence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	_, err := p.GetManga(context.Background(), srv.URL+"/manga/404")
	require.Error(t, err)
	assert.True(t, errors.IsAbsent(err))
}
