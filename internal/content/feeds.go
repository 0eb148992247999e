package content

import (
	"encoding/xml"
	"sort"
	"strings"
	"time"
)

// MaxFeedItems caps the RSS feed.
const MaxFeedItems = 20

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate,omitempty"`
	Description string `xml:"description,omitempty"`
}

type feedEntry struct {
	page *Page
	doc  *document
	date time.Time
}

// Feed renders an RSS 2.0 feed of dated pages in lang, newest first.
func (s *Site) Feed(lang string) (string, error) {
	if lang == "" {
		lang = s.Language()
	}
	var entries []feedEntry
	for _, p := range s.pages {
		if p == s.home {
			continue
		}
		doc, err := p.document(lang)
		if err != nil {
			return "", err
		}
		if d, ok := doc.date(); ok {
			entries = append(entries, feedEntry{page: p, doc: doc, date: d})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].date.After(entries[j].date) })
	if len(entries) > MaxFeedItems {
		entries = entries[:MaxFeedItems]
	}

	ch := rssChannel{
		Title:       s.opts.Title,
		Link:        s.url("", lang, true),
		Description: s.opts.Title,
		Language:    lang,
	}
	for _, e := range entries {
		title := e.doc.title()
		if title == "" {
			title = e.page.Slug()
		}
		u := e.page.URL(lang)
		ch.Items = append(ch.Items, rssItem{
			Title:       title,
			Link:        u,
			GUID:        u,
			PubDate:     e.date.UTC().Format(time.RFC1123Z),
			Description: e.doc.str("description"),
		})
	}
	return marshalXML(rssDocument{Version: "2.0", Channel: ch})
}

type sitemapDocument struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap lists every page URL, per language on multilingual sites.
func (s *Site) Sitemap() (string, error) {
	langs := s.opts.Languages
	if len(langs) == 0 {
		langs = []string{""}
	}
	doc := sitemapDocument{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, lang := range langs {
		for _, p := range s.pages {
			entry := sitemapURL{Loc: p.URL(lang)}
			d, err := p.document(lang)
			if err != nil {
				return "", err
			}
			if t, ok := d.date(); ok {
				entry.LastMod = t.Format("2006-01-02")
			}
			doc.URLs = append(doc.URLs, entry)
		}
	}
	return marshalXML(doc)
}

// Robots allows everything and points at the sitemap.
func (s *Site) Robots() string {
	return "User-agent: *\nAllow: /\nSitemap: " + s.absolute("sitemap.xml") + "\n"
}

func marshalXML(v any) (string, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(xml.Header)
	b.Write(out)
	b.WriteString("\n")
	return b.String(), nil
}
