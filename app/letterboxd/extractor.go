package letterboxd

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/filmhook/app/discord"
	"github.com/lysyi3m/filmhook/app/markup"
)

const (
	watchedDateLayout = "2006-01-02"
	watchDateLayout   = "Monday January 02, 2006"
)

// overflowPattern matches the sentence Letterboxd appends to truncated lists.
var overflowPattern = regexp.MustCompile(`^((?:\.\.\.|…)\s*plus (\d+) more\.)\s*View the full list on (.+?)\.?$`)

// ExtractFilm pulls the review, stars, watch date and poster out of a watch or
// review entry.
func ExtractFilm(entry Entry) (Film, error) {
	root, err := markup.Parse(entry.Summary)
	if err != nil {
		return Film{}, err
	}

	paragraphs := root.FindAll("p")
	if len(paragraphs) == 0 {
		return Film{}, &markup.ParseError{Context: "film summary", Reason: "no paragraphs"}
	}

	var film Film

	last := paragraphs[len(paragraphs)-1].Text()
	if !strings.Contains(last, "Watched on") {
		film.Review = last
		if strings.Contains(film.Review, "spoiler") {
			film.Review = "|| " + film.Review + " ||"
		}
	}

	if entry.MemberRating != "" {
		film.Stars = starsFromTitle(entry.Title)
	}

	if entry.WatchedDate != "" {
		watched, err := time.Parse(watchedDateLayout, entry.WatchedDate)
		if err != nil {
			return Film{}, &markup.ParseError{Context: "watched date", Reason: err.Error()}
		}
		film.WatchDate = watched.Format(watchDateLayout)
	}

	if img, ok := root.FindFirst("img"); ok {
		film.PosterURL, _ = img.Attr("src")
	}

	return film, nil
}

// starsFromTitle takes the first token after the last "-" of titles such as
// "Heat, 1995 - ★★★★½".
func starsFromTitle(title string) string {
	parts := strings.Split(title, "-")
	tail := strings.TrimSpace(parts[len(parts)-1])
	return strings.Split(tail, " ")[0]
}

// ExtractList pulls the description, items and overflow sentence out of a list entry.
func ExtractList(entry Entry) (List, error) {
	root, err := markup.Parse(entry.Summary)
	if err != nil {
		return List{}, err
	}

	container, ok := root.FindFirst("ol, ul")
	if !ok {
		return List{}, &markup.ParseError{Context: "list summary", Reason: "no list container"}
	}

	list := List{Ordered: container.Is("ol")}

	var description []string
	for _, p := range root.FindAll("p") {
		if p.HasAncestor("ol, ul") {
			continue
		}
		text := p.Text()
		if text == "" {
			continue
		}
		if m := overflowPattern.FindStringSubmatch(text); m != nil {
			list.OverflowText = m[1]
			list.Overflow, _ = strconv.Atoi(m[2])
			list.Source = m[3]
			continue
		}
		description = append(description, text)
	}
	list.Description = strings.Join(description, "\n\n")

	for _, li := range container.Children() {
		if !li.Is("li") {
			continue
		}
		anchor, ok := li.FindFirst("a")
		if !ok {
			return List{}, &markup.ParseError{Context: "list summary", Reason: "list item without link"}
		}
		link, _ := anchor.Attr("href")
		list.Items = append(list.Items, ListItem{
			Title:       anchor.Text(),
			Link:        link,
			Description: markup.Truncate(markup.JoinText(li.FindAll("p"), "\n\n"), discord.MaxFieldValue),
		})
	}

	return list, nil
}
