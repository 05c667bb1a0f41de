// Package output writes generated taxonomy records to disk as a JSON array.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/c360studio/rsfgen/taxonomy"
)

// DefaultPath is where the taxonomy is written when no path is configured.
const DefaultPath = "public/data/robot-smartfactory.json"

// DefaultSplitDir is the conventional directory for one file per record.
const DefaultSplitDir = "public/data/robot-smartfactory/skills"

// Encode writes skills as an indented JSON array. Non-ASCII text and HTML
// characters are written as-is.
func Encode(w io.Writer, skills []taxonomy.Skill) error {
	if skills == nil {
		skills = []taxonomy.Skill{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(skills); err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	return nil
}

// Marshal returns the encoded form of skills.
func Marshal(skills []taxonomy.Skill) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, skills); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalSkill returns one record as an indented JSON object without a
// trailing newline.
func MarshalSkill(s taxonomy.Skill) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode %s: %w", s.SkillID, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteSplit writes every record to dir/<skill_id>.json and returns the
// paths in record order. A record whose ID is not a well-formed skill ID is
// rejected before anything is written, since the ID becomes a file name.
func WriteSplit(dir string, skills []taxonomy.Skill) ([]string, error) {
	for _, s := range skills {
		if !taxonomy.IsSkillID(s.SkillID) {
			return nil, fmt.Errorf("split output: %q is not a skill ID", s.SkillID)
		}
	}

	paths := make([]string, 0, len(skills))
	for _, s := range skills {
		data, err := MarshalSkill(s)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, s.SkillID+".json")
		if err := WriteFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReadSplit loads the records written by WriteSplit, ordered by file name.
func ReadSplit(dir string) ([]taxonomy.Skill, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	skills := make([]taxonomy.Skill, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read skill file: %w", err)
		}
		var s taxonomy.Skill
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse skill file %s: %w", path, err)
		}
		skills = append(skills, s)
	}
	return skills, nil
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// WriteJSON encodes skills and writes them to path in one piece: the buffer
// goes to a temporary file in the same directory, which is then renamed over
// path. Parent directories are created as needed.
func WriteJSON(path string, skills []taxonomy.Skill) error {
	data, err := Marshal(skills)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes data to path through a temporary file and rename.
func WriteFile(path string, data []byte) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads a previously written taxonomy file.
func ReadJSON(path string) ([]taxonomy.Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skills file: %w", err)
	}
	var skills []taxonomy.Skill
	if err := json.Unmarshal(data, &skills); err != nil {
		return nil, fmt.Errorf("failed to parse skills file %s: %w", path, err)
	}
	return skills, nil
}
