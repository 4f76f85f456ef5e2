package nyaa

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// detailField locates one value cell of the detail panel. The panel is a
// stack of rows holding "Label:" / value pairs; cells are found by their
// label first and by position only if the label is missing.
type detailField struct {
	label string
	row   int
	col   int
}

var (
	fieldCategory    = detailField{"category", 0, 0}
	fieldDate        = detailField{"date", 0, 1}
	fieldSubmitter   = detailField{"submitter", 1, 0}
	fieldSeeders     = detailField{"seeders", 1, 1}
	fieldInformation = detailField{"information", 2, 0}
	fieldLeechers    = detailField{"leechers", 2, 1}
	fieldSize        = detailField{"file size", 3, 0}
	fieldCompleted   = detailField{"completed", 3, 1}
	fieldInfoHash    = detailField{"info hash", 4, 0}
)

type detailSections struct {
	rows    *goquery.Selection
	byLabel map[string]*goquery.Selection
}

func newDetailSections(body *goquery.Selection) detailSections {
	s := detailSections{
		rows:    body.ChildrenFiltered("div.row"),
		byLabel: make(map[string]*goquery.Selection),
	}
	s.rows.Find("div.col-md-1").Each(func(_ int, label *goquery.Selection) {
		key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(label.Text()), ":"))
		if value := label.Next(); key != "" && value.Length() > 0 {
			s.byLabel[key] = value
		}
	})
	return s
}

func (s detailSections) cell(f detailField) (*goquery.Selection, error) {
	if v, ok := s.byLabel[f.label]; ok {
		return v, nil
	}
	v := s.rows.Eq(f.row).Find("div.col-md-5").Eq(f.col)
	if v.Length() == 0 {
		return nil, missing(f.label)
	}
	return v, nil
}

func (s detailSections) text(f detailField) (string, error) {
	v, err := s.cell(f)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v.Text()), nil
}

func (s detailSections) number(f detailField) (int, error) {
	v, err := s.cell(f)
	if err != nil {
		return 0, err
	}
	return intText(v, f.label)
}

// ParseTorrentInfo extracts a torrent's detail page. viewID is the id the
// page was requested with; it is not rendered on the page itself.
func ParseTorrentInfo(doc *goquery.Document, site Site, baseURL string, viewID int) (*TorrentInfo, error) {
	info := &TorrentInfo{ViewID: viewID}
	var err error

	panel := doc.Find("div.panel").First()
	if panel.Length() == 0 {
		return nil, missing("panel")
	}
	if info.Type, err = TorrentTypeFromColor(colorClass(panel)); err != nil {
		return nil, err
	}
	info.Name = strings.TrimSpace(panel.Find("div.panel-heading h3.panel-title").First().Text())
	if info.Name == "" {
		return nil, missing("name")
	}

	sections := newDetailSections(panel.ChildrenFiltered("div.panel-body").First())

	categoryCell, err := sections.cell(fieldCategory)
	if err != nil {
		return nil, err
	}
	// "Anime - English-translated": the last link is the subcategory.
	if info.Category, err = categoryFromLink(categoryCell.Find("a[href^='/?c=']").Last(), site); err != nil {
		return nil, err
	}
	dateCell, err := sections.cell(fieldDate)
	if err != nil {
		return nil, err
	}
	if info.Timestamp, err = timestampAttr(dateCell, "timestamp"); err != nil {
		return nil, err
	}

	submitterCell, err := sections.cell(fieldSubmitter)
	if err != nil {
		return nil, err
	}
	if info.Submitter, err = parseSubmitter(submitterCell, baseURL); err != nil {
		return nil, err
	}

	if info.Seeders, err = sections.number(fieldSeeders); err != nil {
		return nil, err
	}
	if info.Information, err = sections.text(fieldInformation); err != nil {
		return nil, err
	}
	if info.Leechers, err = sections.number(fieldLeechers); err != nil {
		return nil, err
	}
	if info.Size, err = sections.text(fieldSize); err != nil {
		return nil, err
	}
	if info.Completed, err = sections.number(fieldCompleted); err != nil {
		return nil, err
	}
	hashCell, err := sections.cell(fieldInfoHash)
	if err != nil {
		return nil, err
	}
	if kbd := hashCell.Find("kbd").First(); kbd.Length() > 0 {
		hashCell = kbd
	}
	if info.InfoHash = strings.TrimSpace(hashCell.Text()); info.InfoHash == "" {
		return nil, missing("info_hash")
	}

	footer := panel.Find("div.panel-footer")
	torrent, err := requiredAttr(footer.Find("a[href^='/download/']"), "href", "torrent_url")
	if err != nil {
		return nil, err
	}
	info.TorrentURL = absURL(baseURL, torrent)
	if info.MagnetLink, err = requiredAttr(footer.Find("a[href^='magnet:']"), "href", "magnet_link"); err != nil {
		return nil, err
	}

	info.Description = strings.TrimSpace(doc.Find("#torrent-description").First().Text())

	info.Files = []Entry{}
	if list := doc.Find("div.torrent-file-list").First(); list.Length() > 0 {
		root := list.ChildrenFiltered("ul").First()
		if root.Length() == 0 {
			root = list.Find("ul").First()
		}
		info.Files = parseFileTree(root)
	}

	if info.TotalComments, info.Comments, err = parseComments(doc.Find("div#comments").First(), baseURL); err != nil {
		return nil, err
	}
	return info, nil
}

// parseSubmitter returns nil when the cell has no profile link, which is
// how anonymous uploads are rendered.
func parseSubmitter(cell *goquery.Selection, baseURL string) (*User, error) {
	link := cell.Find("a[href^='/user/']").First()
	if link.Length() == 0 {
		return nil, nil
	}
	user, err := parseUserLink(link, baseURL)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func parseUserLink(link *goquery.Selection, baseURL string) (User, error) {
	href, _ := link.Attr("href")
	user := User{
		Username:   strings.TrimPrefix(href, "/user/"),
		ProfileURL: absURL(baseURL, href),
	}
	if user.Username == "" {
		user.Username = strings.TrimSpace(link.Text())
	}
	if user.Username == "" {
		return user, missing("username")
	}
	title, _ := link.Attr("title")
	level, banned, err := parseUserBadge(title)
	if err != nil {
		return user, err
	}
	user.Level, user.Banned = level, banned
	return user, nil
}

// parseUserBadge reads a tooltip such as "Trusted" or "User BANNED".
// An empty tooltip yields no level.
func parseUserBadge(title string) (UserLevel, bool, error) {
	var level UserLevel
	banned := false
	for _, word := range strings.Fields(title) {
		if strings.EqualFold(word, "banned") {
			banned = true
			continue
		}
		if level != "" {
			continue
		}
		l, err := ParseUserLevel(word)
		if err != nil {
			return "", false, err
		}
		level = l
	}
	return level, banned, nil
}

// parseFileTree walks the direct li children of ul. Folders recurse into
// their nested list; nodes that are neither folder nor file are wrappers
// and get skipped.
func parseFileTree(ul *goquery.Selection) []Entry {
	entries := []Entry{}
	ul.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if marker := li.ChildrenFiltered("a.folder").First(); marker.Length() > 0 {
			children := li.ChildrenFiltered("ul").First()
			if children.Length() == 0 {
				children = li.Find("ul").First()
			}
			entries = append(entries, &Folder{
				Name:  strings.TrimSpace(marker.Text()),
				Files: parseFileTree(children),
			})
			return
		}

		marker := li.Find("i.fa-file").First()
		if marker.Length() == 0 {
			return
		}
		name := ownText(li)
		if name == "" {
			// A self-closed <i/> swallows the following text.
			name = ownText(marker)
		}
		size := li.Find("span.file-size").First()
		if size.Length() == 0 {
			size = li.Find("span").First()
		}
		entries = append(entries, &File{
			Name: name,
			Size: strings.Trim(strings.TrimSpace(size.Text()), "()"),
		})
	})
	return entries
}

// parseComments returns the count from the "Comments - N" heading and the
// rendered comment panels. A page without a comment section has none.
func parseComments(section *goquery.Selection, baseURL string) (int, []Comment, error) {
	comments := []Comment{}
	if section.Length() == 0 {
		return 0, comments, nil
	}

	total := 0
	heading := section.Find("div.panel-heading h3.panel-title").First()
	if heading.Length() > 0 {
		text := heading.Text()
		i := strings.LastIndex(text, "-")
		if i < 0 {
			return 0, nil, missing("total_comments")
		}
		n, err := atoi(text[i+1:], "total_comments")
		if err != nil {
			return 0, nil, err
		}
		total = n
	}

	var parseErr error
	section.Find("div.comment-panel").EachWithBreak(func(_ int, panel *goquery.Selection) bool {
		c, err := parseComment(panel, baseURL)
		if err != nil {
			parseErr = err
			return false
		}
		comments = append(comments, c)
		return true
	})
	if parseErr != nil {
		return 0, nil, parseErr
	}
	return total, comments, nil
}

func parseComment(panel *goquery.Selection, baseURL string) (Comment, error) {
	var c Comment

	id, err := requiredAttr(panel, "id", "comment_id")
	if err != nil {
		return c, err
	}
	if c.ID, err = atoi(id[strings.LastIndex(id, "-")+1:], "comment_id"); err != nil {
		return c, err
	}

	link := panel.Find("a[href^='/user/']").First()
	if link.Length() == 0 {
		return c, missing("comment_user")
	}
	if c.User, err = parseUserLink(link, baseURL); err != nil {
		return c, err
	}
	if src, ok := panel.Find("img.avatar").First().Attr("src"); ok {
		c.User.PhotoURL = absURL(baseURL, src)
	}

	byline := panel.Find("div.col-md-2 p").First()
	if byline.Length() == 0 {
		byline = link.Parent()
	}
	c.IsUploader = strings.Contains(byline.Text(), "(uploader)")

	if c.Timestamp, err = timestampAttr(panel.Find("[data-timestamp]").First(), "comment_timestamp"); err != nil {
		return c, err
	}
	c.Text = strings.TrimSpace(panel.Find("div.comment-content").First().Text())
	return c, nil
}
