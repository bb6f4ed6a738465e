package dmmf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userPostDMMF = `{
  "datamodel": {
    "enums": [{"name": "Role", "values": [{"name": "USER", "dbName": null}, {"name": "ADMIN", "dbName": null}]}],
    "models": [
      {
        "name": "User",
        "dbName": null,
        "fields": [
          {"name": "id", "kind": "scalar", "type": "Int", "isList": false, "isRequired": true, "isUnique": false, "isId": true, "hasDefaultValue": true, "default": {"name": "autoincrement", "args": []}},
          {"name": "email", "kind": "scalar", "type": "String", "isList": false, "isRequired": true, "isUnique": true, "isId": false, "hasDefaultValue": false},
          {"name": "posts", "kind": "object", "type": "Post", "isList": true, "isRequired": true, "isUnique": false, "isId": false, "hasDefaultValue": false, "relationName": "PostToUser"}
        ],
        "primaryKey": null,
        "uniqueFields": []
      },
      {"name": "Post", "dbName": "posts", "fields": []}
    ],
    "types": []
  },
  "schema": {},
  "mappings": {}
}`

func TestParse_ReadsModelsInOrder(t *testing.T) {
	doc, err := Parse([]byte(userPostDMMF))
	require.NoError(t, err)

	require.Equal(t, []string{"User", "Post"}, doc.ModelNames())
	user := doc.Datamodel.Models[0]
	require.Len(t, user.Fields, 3)
	assert.True(t, user.Fields[0].IsID)
	assert.True(t, user.Fields[0].HasDefaultValue)
	assert.JSONEq(t, `{"name": "autoincrement", "args": []}`, string(user.Fields[0].Default))
	assert.Equal(t, KindObject, user.Fields[2].Kind)
	assert.Equal(t, "PostToUser", user.Fields[2].RelationName)

	post := doc.Datamodel.Models[1]
	require.NotNil(t, post.DBName)
	assert.Equal(t, "posts", *post.DBName)

	require.Len(t, doc.Datamodel.Enums, 1)
	assert.Equal(t, "ADMIN", doc.Datamodel.Enums[0].Values[1].Name)
}

func TestParse_EmptyDatamodel(t *testing.T) {
	doc, err := Parse([]byte(`{"datamodel": {"models": []}}`))
	require.NoError(t, err)
	assert.Empty(t, doc.ModelNames())
	assert.NotNil(t, doc.ModelNames())
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"datamodel":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode dmmf")
}

func TestNilDocument(t *testing.T) {
	var doc *Document
	assert.Nil(t, doc.ModelNames())
	assert.Nil(t, doc.Models())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dmmf.json")
	require.NoError(t, os.WriteFile(path, []byte(userPostDMMF), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Post"}, doc.ModelNames())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read dmmf")
}
