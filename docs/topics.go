// Package docs holds the topics printed by nw topic and read by the
// assistant. The index of the topics is the list in readme.md.
//
// Code blocks tagged "bash setup" and "bash check" are run by the tests.
package docs

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed *.md
var files embed.FS

// ErrUnknownTopic is returned for a topic missing from the index.
var ErrUnknownTopic = errors.New("unknown topic")

// Topic is an entry of the index.
type Topic struct {
	Name    string
	Summary string
}

// indexLine matches "* name: summary" in readme.md.
var indexLine = regexp.MustCompile(`^\*\s+([^:]+):\s*(.*)$`)

var index = sync.OnceValue(func() []Topic {
	readme, err := files.ReadFile("readme.md")
	if err != nil {
		panic(err) // embedded
	}
	var topics []Topic
	sc := bufio.NewScanner(bytes.NewReader(readme))
	for sc.Scan() {
		if m := indexLine.FindStringSubmatch(sc.Text()); m != nil {
			topics = append(topics, Topic{Name: strings.TrimSpace(m[1]), Summary: m[2]})
		}
	}
	return topics
})

// Index lists the topics in the order of readme.md.
func Index() []Topic { return index() }

// Names returns the names of the topics, for completion.
func Names() []string {
	var names []string
	for _, t := range index() {
		names = append(names, t.Name)
	}
	return names
}

func known(name string) bool {
	for _, t := range index() {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Read returns the named topics one after the other. "*" stands for every
// topic of the index; without names, Read returns the readme.
func Read(names ...string) (string, error) {
	if len(names) == 0 {
		names = []string{"readme"}
	}
	var b strings.Builder
	for _, name := range names {
		if name == "*" {
			all, err := Read(Names()...)
			if err != nil {
				return "", err
			}
			b.WriteString(all)
			continue
		}
		if name != "readme" && !known(name) {
			return "", fmt.Errorf("%w %q, see nw topic", ErrUnknownTopic, name)
		}
		content, err := files.ReadFile(name + ".md")
		if err != nil {
			return "", fmt.Errorf("topic %q: %w", name, err)
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// guideTopics explain how the reports' figures are computed.
var guideTopics = []string{"valuation", "categories", "pledge"}

// Guide returns the topics the assistant needs to read the reports.
func Guide() (string, error) { return Read(guideTopics...) }
