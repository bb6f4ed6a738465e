package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechXTT/prisma-factory/pkg/config"
	"github.com/TechXTT/prisma-factory/pkg/generatorhelper"
)

const testSchema = `generator factories {
  provider = "prisma-factory"
  output   = "../generated/factories"
  client   = "prisma"
}

model User {
  id    Int    @id @default(autoincrement())
  email String @unique
  posts Post[]
}

model Post {
  id       Int  @id @default(autoincrement())
  author   User @relation(fields: [authorId], references: [id])
  authorId Int
}
`

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	if args == nil {
		args = []string{}
	}
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestGenerate_FromSchemaBlock(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "prisma", "schema.prisma")
	writeFile(t, schemaFile, testSchema)

	_, stderr, err := execute(t, "generate", "--schema", schemaFile)
	require.NoError(t, err)
	assert.Contains(t, stderr, "generated factories")

	got := readFile(t, filepath.Join(dir, "generated", "factories", "index.ts"))
	assert.Contains(t, got, "import { Prisma, User, Post } from 'prisma';")
	assert.Contains(t, got, "export function createUserFactory(requiredAttrs?: Partial<User>)")
	assert.Contains(t, got, "return createFactory<Prisma.PostCreateInput, Post>('Post', requiredAttrs, { client: prisma });")
}

func TestGenerate_FlagsOverrideSchemaBlock(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "schema.prisma")
	writeFile(t, schemaFile, testSchema)
	out := filepath.Join(dir, "out", "factories.ts")

	_, _, err := execute(t, "generate", "--schema", schemaFile, "-o", out, "--client", "db")
	require.NoError(t, err)

	got := readFile(t, out)
	assert.Contains(t, got, "('User', requiredAttrs, { client: db });")
}

func TestGenerate_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "schema.prisma")
	writeFile(t, schemaFile, testSchema)
	out := filepath.Join(dir, "from-config.ts")
	cfgFile := filepath.Join(dir, "prisma-factory.yaml")
	require.NoError(t, (&config.Config{Schema: schemaFile, Output: out}).Save(cfgFile))

	_, _, err := execute(t, "generate", "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "createPostFactory")
}

func TestGenerate_FromDMMF(t *testing.T) {
	dir := t.TempDir()
	dmmfFile := filepath.Join(dir, "dmmf.json")
	writeFile(t, dmmfFile, `{"datamodel":{"models":[{"name":"Account","fields":[]}],"enums":[]}}`)
	out := filepath.Join(dir, "index.ts")

	_, _, err := execute(t, "generate", "--schema", filepath.Join(dir, "missing.prisma"), "--dmmf", dmmfFile, "-o", out)
	require.NoError(t, err)

	got := readFile(t, out)
	assert.Contains(t, got, "import { Prisma, Account } from '@prisma/client';")
	assert.Contains(t, got, "createAccountFactory")
	assert.NotContains(t, got, "client:")
}

func TestGenerate_ConflictingSources(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "generate",
		"--schema", filepath.Join(dir, "missing.prisma"),
		"--dmmf", filepath.Join(dir, "dmmf.json"),
		"--from-db", "--database-url", "postgres://localhost/db")
	require.ErrorIs(t, err, config.ErrConflictingSources)
}

func TestGenerate_MissingSchema(t *testing.T) {
	_, _, err := execute(t, "generate", "--schema", filepath.Join(t.TempDir(), "schema.prisma"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatch_RejectsDatabaseSource(t *testing.T) {
	_, _, err := execute(t, "watch",
		"--schema", filepath.Join(t.TempDir(), "missing.prisma"),
		"--from-db", "--database-url", "postgres://localhost/db")
	require.ErrorIs(t, err, ErrWatchDatabase)
}

func TestRoot_ServesUnderPrisma(t *testing.T) {
	t.Setenv(generatorhelper.InvocationEnv, "1")

	var errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(`{"jsonrpc":"2.0","method":"getManifest","id":1,"params":{"name":"factories","provider":{"value":"prisma-factory"}}}` + "\n"))
	require.NoError(t, cmd.Execute())

	assert.Contains(t, errOut.String(), `"prettyName":"Prisma Factory"`)
	assert.Contains(t, errOut.String(), `"version":"`+Version+`"`)
}

func TestRoot_HelpOutsidePrisma(t *testing.T) {
	t.Setenv(generatorhelper.InvocationEnv, "")

	out, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "create<Model>Factory")
}
