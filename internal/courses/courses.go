// Package courses loads canonical course definitions from YAML files and
// imports them into a course store.
package courses

import (
	"context"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/logging"
	"github.com/agentstation/scorecard/pkg/repository"
)

//go:embed data/*.yaml
var sampleFS embed.FS

// File is the on-disk layout of a course catalog.
type File struct {
	Courses []golf.Course `yaml:"courses"`
}

// Parse decodes a catalog. Both a `courses:` document and a bare list of
// courses are accepted. Every course is validated.
func Parse(data []byte, source string) ([]golf.Course, error) {
	var file File
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict()); err != nil {
		var list []golf.Course
		if listErr := yaml.UnmarshalWithOptions(data, &list, yaml.Strict()); listErr != nil {
			return nil, errors.WrapParse("yaml", source, err)
		}
		file.Courses = list
	}

	for i := range file.Courses {
		c := &file.Courses[i]
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return nil, errors.NewParseError("yaml", source, "course name is required", nil)
		}
		c.SortHoles()
		if err := c.Validate(); err != nil {
			return nil, errors.NewParseError("yaml", source, c.Name+": "+err.Error(), err)
		}
	}
	return file.Courses, nil
}

// Load reads a catalog file, or every .yaml/.yml file under a directory in
// lexical order.
func Load(path string) ([]golf.Course, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapResource("read", "course_file", path, err)
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapResource("read", "course_file", path, err)
		}
		return Parse(data, path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isYAML(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapResource("read", "course_dir", path, err)
	}
	sort.Strings(files)

	var out []golf.Course
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.WrapResource("read", "course_file", f, err)
		}
		cs, err := Parse(data, f)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

// Sample returns the embedded sample catalog.
func Sample() ([]golf.Course, error) {
	entries, err := fs.Glob(sampleFS, "data/*.yaml")
	if err != nil {
		return nil, err
	}
	var out []golf.Course
	for _, name := range entries {
		data, err := sampleFS.ReadFile(name)
		if err != nil {
			return nil, errors.WrapResource("read", "course_file", name, err)
		}
		cs, err := Parse(data, name)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

// Import saves every course and returns the stored copies. It stops at the
// first failure.
func Import(ctx context.Context, w repository.CourseWriter, courses []golf.Course) ([]golf.Course, error) {
	logger := logging.FromContext(ctx)
	saved := make([]golf.Course, 0, len(courses))
	for i := range courses {
		c, err := w.SaveCourse(ctx, &courses[i])
		if err != nil {
			return saved, errors.WrapResource("create", "course", courses[i].Name, err)
		}
		logger.Debug().Str("course_id", c.ID).Str("name", c.Name).Msg("Course imported")
		saved = append(saved, *c)
	}
	logger.Info().Int("courses", len(saved)).Msg("Course import complete")
	return saved, nil
}

// Marshal encodes courses in the catalog layout.
func Marshal(courses []golf.Course) ([]byte, error) {
	data, err := yaml.MarshalWithOptions(File{Courses: courses},
		yaml.Indent(2),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return data, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
