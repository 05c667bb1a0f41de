package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/rsfgen/output"
	"github.com/c360studio/rsfgen/storage/sqlite"
)

// isolate points HOME and the working directory at an empty temp dir so no
// user or project config leaks into a run.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("NATS_URL", "")
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func goldenPath() string {
	return filepath.Join("..", "..", "output", "testdata", "robot-smartfactory.golden.json")
}

func TestGenerateMatchesGolden(t *testing.T) {
	golden, err := os.ReadFile(goldenPath())
	require.NoError(t, err)
	dir := isolate(t)

	out, err := execute(t)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, output.DefaultPath))
	require.NoError(t, err)
	if !bytes.Equal(golden, got) {
		t.Errorf("generated file differs from golden:\n%s", cmp.Diff(string(golden), string(got)))
	}

	assert.Contains(t, out, "🚀 로봇테크 for 스마트팩토리 스킬 데이터 생성 시작...")
	assert.Contains(t, out, "   총 스킬 수: 127개")
	assert.Contains(t, out, "   engineer: 127개")
	assert.Contains(t, out, "   Level 3: 55개")
	assert.True(t, strings.HasSuffix(out, "\n✨ 데이터 생성 완료!\n"))
}

func TestGenerateSubcommandWithOutputs(t *testing.T) {
	dir := isolate(t)
	jsonPath := filepath.Join(dir, "out", "skills.json")
	exportDir := filepath.Join(dir, "rdf")
	metricsPath := filepath.Join(dir, "metrics", "rsf.prom")

	_, err := execute(t, "generate",
		"--output", jsonPath,
		"--export-dir", exportDir,
		"--format", "turtle,jsonld",
		"--metrics-file", metricsPath)
	require.NoError(t, err)

	skills, err := output.ReadJSON(jsonPath)
	require.NoError(t, err)
	assert.Len(t, skills, 127)

	ttl, err := os.ReadFile(filepath.Join(exportDir, "skills.ttl"))
	require.NoError(t, err)
	assert.Contains(t, string(ttl), "skos:ConceptScheme")
	assert.FileExists(t, filepath.Join(exportDir, "skills.jsonld"))
	assert.NoFileExists(t, filepath.Join(exportDir, "skills.nt"))

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `rsf_skill_roles{role="engineer"} 127`)
}

func TestGenerateDomainFilter(t *testing.T) {
	dir := isolate(t)
	jsonPath := filepath.Join(dir, "cro.json")

	out, err := execute(t, "generate", "--output", jsonPath, "--domain", "CRO")
	require.NoError(t, err)

	skills, err := output.ReadJSON(jsonPath)
	require.NoError(t, err)
	assert.Len(t, skills, 21)
	for _, s := range skills {
		assert.True(t, strings.HasPrefix(s.SkillID, "RSF-CRO-"), s.SkillID)
	}
	assert.Contains(t, out, "   총 스킬 수: 21개")
}

func TestGenerateRejectsBadFormat(t *testing.T) {
	dir := isolate(t)
	_, err := execute(t, "generate",
		"--output", filepath.Join(dir, "x.json"),
		"--export-dir", dir,
		"--format", "rdfxml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestGenerateWatchNeedsDataFile(t *testing.T) {
	dir := isolate(t)
	_, err := execute(t, "generate", "--output", filepath.Join(dir, "x.json"), "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch needs a tables file")
}

func TestValidate(t *testing.T) {
	dir := isolate(t)
	jsonPath := filepath.Join(dir, "skills.json")
	_, err := execute(t, "generate", "--output", jsonPath)
	require.NoError(t, err)

	out, err := execute(t, "validate", "--input", jsonPath)
	require.NoError(t, err)
	assert.Contains(t, out, "   총 스킬 수: 127개")
	assert.Contains(t, out, "✅ 검증 통과")
}

func TestValidateFailsOnTamperedFile(t *testing.T) {
	dir := isolate(t)
	jsonPath := filepath.Join(dir, "skills.json")
	_, err := execute(t, "generate", "--output", jsonPath)
	require.NoError(t, err)

	skills, err := output.ReadJSON(jsonPath)
	require.NoError(t, err)
	skills[0].PreferredLabelEN = ""
	require.NoError(t, output.WriteJSON(jsonPath, skills))

	out, err := execute(t, "validate", "--input", jsonPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errValidationFailed))
	assert.Contains(t, out, "[fields] RSF-IRC-001: required field preferred_label_en is empty")
	assert.Contains(t, out, "❌ 검증 실패")
}

func TestValidateJSON(t *testing.T) {
	dir := isolate(t)
	jsonPath := filepath.Join(dir, "skills.json")
	_, err := execute(t, "generate", "--output", jsonPath)
	require.NoError(t, err)

	out, err := execute(t, "validate", "--input", jsonPath, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 127`)
}

func TestValidateMissingInput(t *testing.T) {
	isolate(t)
	_, err := execute(t, "validate", "--input", "nope.json")
	require.Error(t, err)
}

func TestStatsWritesNothing(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "📊 도메인별 분포:")
	assert.Contains(t, out, "   knowledge: 30개")
	assert.Contains(t, out, "   competence: 42개")
	assert.NoFileExists(t, filepath.Join(dir, output.DefaultPath))
}

func TestExportToStdout(t *testing.T) {
	isolate(t)

	out, err := execute(t, "export", "--format", "nt", "--profile", "minimal")
	require.NoError(t, err)
	assert.Contains(t, out, "<http://www.w3.org/2004/02/skos/core#Concept>")
	assert.NotContains(t, out, "skillType")
}

func TestExportToFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "rsf.jsonld")

	out, err := execute(t, "export", "--format", "jsonld", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"@context"`)
}

func TestExportUnknownFormat(t *testing.T) {
	isolate(t)
	_, err := execute(t, "export", "--format", "rdfxml")
	require.Error(t, err)
}

func TestSeedSQLite(t *testing.T) {
	dir := isolate(t)
	dbPath := filepath.Join(dir, "db", "rsf.db")

	_, err := execute(t, "seed", "--sqlite", dbPath)
	require.NoError(t, err)
	// Seeding twice upserts.
	_, err = execute(t, "seed", "--sqlite", dbPath)
	require.NoError(t, err)

	store, err := sqlite.Open(t.Context(), dbPath)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 127, n)

	sk, err := store.Skill(t.Context(), "RSF-CRO-011")
	require.NoError(t, err)
	assert.Equal(t, "Touch Sensing and Safety Response", sk.PreferredLabelEN)
}

func TestSeedNeedsStore(t *testing.T) {
	isolate(t)
	_, err := execute(t, "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no store selected")
}

func TestSeedFromConfigFile(t *testing.T) {
	dir := isolate(t)
	dbPath := filepath.Join(dir, "cfg.db")
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  sqlite_path: "+dbPath+"\n"), 0644))

	_, err := execute(t, "--config", cfgPath, "seed")
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rsfgen version "+Version+" (build: "+BuildTime+")\n", out)
}

func TestMissingExplicitConfig(t *testing.T) {
	isolate(t)
	_, err := execute(t, "--config", "missing.yaml", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestNATSURLPrecedence(t *testing.T) {
	isolate(t)
	a := &app{logLevel: "error"}
	require.NoError(t, a.setup(rootCmd()))

	assert.Equal(t, "nats://127.0.0.1:4222", a.natsURL(""))
	t.Setenv("NATS_URL", "nats://env:4222")
	assert.Equal(t, "nats://env:4222", a.natsURL(""))
	assert.Equal(t, "nats://flag:4222", a.natsURL("nats://flag:4222"))
}

func TestWrapNATSError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantGuidance bool
	}{
		{"refused", errors.New("dial tcp 127.0.0.1:4222: connect: connection refused"), true},
		{"no servers", errors.New("nats: no servers available for connection"), true},
		{"timeout", errors.New("nats: timeout"), true},
		{"other", errors.New("nats: authorization violation"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapNATSError(tt.err, "nats://localhost:4222")
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantGuidance, strings.Contains(err.Error(), "NATS_URL"))
			if tt.wantGuidance {
				assert.Contains(t, err.Error(), "nats://localhost:4222")
			}
		})
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	want := filepath.Join(dir, ".config", "rsfgen", "config.yaml")
	assert.Equal(t, want+"\n", out)
	assert.FileExists(t, want)

	require.NoError(t, os.WriteFile("rsfgen.yaml", []byte("export:\n  profile: minimal\n"), 0644))

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "profile: minimal")
	assert.Contains(t, out, "subject_prefix: rsf.skills")

	out, err = execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "project:  "+filepath.Join(dir, "rsfgen.yaml"))
	assert.Contains(t, out, "explicit: (none)")
}

func TestGenerateSplitDir(t *testing.T) {
	dir := isolate(t)
	splitDir := filepath.Join(dir, "public", "data", "robot-smartfactory", "skills")

	_, err := execute(t, "generate", "--output", filepath.Join(dir, "skills.json"), "--split-dir", splitDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(splitDir)
	require.NoError(t, err)
	assert.Len(t, entries, 127)

	skills, err := output.ReadSplit(splitDir)
	require.NoError(t, err)
	all, err := output.ReadJSON(filepath.Join(dir, "skills.json"))
	require.NoError(t, err)
	byID := make(map[string]int, len(all))
	for i, s := range all {
		byID[s.SkillID] = i
	}
	for _, s := range skills {
		i, ok := byID[s.SkillID]
		require.True(t, ok, s.SkillID)
		if diff := cmp.Diff(all[i], s); diff != "" {
			t.Errorf("%s differs from array entry:\n%s", s.SkillID, diff)
		}
	}
}

// badTables has a knowledge entry whose proficiency is outside 1..4.
const badTables = `domains:
  - key: test-domain
    code: TST
    name_ko: 테스트
    name_en: Test
    knowledge:
      - label_ko: 지식
        label_en: Knowledge
        description_ko: 설명
        description_en: Description
        proficiency: 9
`

func TestPublishChecksRecordsBeforeConnecting(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(data, []byte(badTables), 0644))

	_, err := execute(t, "publish", "--data", data, "--nats-url", "nats://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed checks")
	assert.Contains(t, err.Error(), "RSF-TST-001: proficiency 9 outside 1..4")
	assert.NotContains(t, err.Error(), "NATS connection failed")
}
