package content

import "git.home.luguber.info/inful/sitefreeze/internal/site"

// File is a non-markdown file in a page directory.
type File struct {
	page *Page
	name string
	root string
	url  string
}

var _ site.File = (*File)(nil)

func (f *File) Root() string { return f.root }

func (f *File) Name() string { return f.name }

// URL is the render-time media URL: <media url>/pages/<key>/<name>.
func (f *File) URL() string {
	if f.url == "" {
		f.url = f.page.site.MediaURL() + "/pages/" + f.page.key + "/" + f.name
	}
	return f.url
}

// ResetContent forgets the memoized URL, which depends on the current base.
func (f *File) ResetContent() { f.url = "" }
