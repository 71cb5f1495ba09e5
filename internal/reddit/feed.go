package reddit

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/evcraddock/condour/internal/discussion"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// feedText strips every tag from feed content.
var feedText = bluemonday.StrictPolicy()

// postsFromFeed converts search feed entries. Feeds carry no vote or
// comment counts, so score is estimated from relevance position and every
// entry is assumed to have discussion.
func postsFromFeed(feed *gofeed.Feed, community string) []discussion.Post {
	n := len(feed.Items)
	posts := make([]discussion.Post, 0, n)
	for i, item := range feed.Items {
		id := strings.TrimPrefix(item.GUID, "t3_")
		if id == "" {
			id = item.Link
		}
		if id == "" {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		p := discussion.Post{
			ID:          id,
			Title:       strings.TrimSpace(item.Title),
			Community:   community,
			Author:      feedAuthor(item, content),
			Body:        contentText(content),
			Permalink:   item.Link,
			Score:       n - i,
			NumComments: 1,
		}
		switch {
		case item.PublishedParsed != nil:
			p.Created = float64(item.PublishedParsed.Unix())
		case item.UpdatedParsed != nil:
			p.Created = float64(item.UpdatedParsed.Unix())
		}
		posts = append(posts, p)
	}
	return posts
}

// feedAuthor prefers the entry author and falls back to the first user
// link in the content.
func feedAuthor(item *gofeed.Item, content string) string {
	if item.Author != nil && item.Author.Name != "" {
		return trimUserPrefix(item.Author.Name)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	var author string
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		href, _ := s.Attr("href")
		if strings.HasPrefix(text, "/u/") || strings.Contains(href, "/user/") {
			author = trimUserPrefix(text)
			return false
		}
		return true
	})
	return author
}

// contentText drops the trailing [link] and [comments] anchors feeds append
// to each entry and returns the remaining text.
func contentText(content string) string {
	if content == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err == nil {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			switch strings.TrimSpace(s.Text()) {
			case "[link]", "[comments]":
				s.Remove()
			}
		})
		if body, err := doc.Find("body").Html(); err == nil {
			content = body
		}
	}
	text := html.UnescapeString(feedText.Sanitize(content))
	return strings.Join(strings.Fields(text), " ")
}

func trimUserPrefix(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "/u/")
	return strings.TrimPrefix(name, "u/")
}
