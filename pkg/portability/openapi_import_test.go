package portability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stubd/stubd/pkg/config"
)

const petstore = `
openapi: 3.0.3
info:
  title: pets
  version: "1"
paths:
  /pets:
    get:
      parameters:
        - name: limit
          in: query
          schema: {type: integer}
        - name: X-Trace
          in: header
          schema: {type: string}
      responses:
        "200":
          description: ok
          content:
            application/json:
              examples:
                b: {value: [{"name": "second"}]}
                a: {value: [{"name": "first"}]}
        "201":
          description: never picked
    post:
      responses:
        default:
          description: fallback
          content:
            text/plain:
              schema:
                type: string
                example: stored
  /pets/{id}:
    delete:
      responses:
        "404":
          description: only an error
  /page:
    get:
      responses:
        "204":
          description: no content
          content:
            text/html:
              example: <p>hi</p>
`

func TestImportOpenAPI(t *testing.T) {
	t.Parallel()

	result, err := ImportOpenAPI([]byte(petstore))
	require.NoError(t, err)
	require.Len(t, result.Routes, 4)

	page := result.Routes[0]
	assert.Equal(t, "/page", page.Request.URL)
	assert.Equal(t, config.ContentTypeHTML, page.Response.ContentType)
	assert.Equal(t, "<p>hi</p>", page.Response.Data)

	list := result.Routes[1]
	assert.Equal(t, config.MethodGet, list.Request.Method)
	assert.Equal(t, []string{"limit"}, list.Request.Query)
	assert.JSONEq(t, `[{"name":"first"}]`, list.Response.Data)

	create := result.Routes[2]
	assert.Equal(t, config.MethodPost, create.Request.Method)
	assert.Equal(t, "stored", create.Response.Data)
	assert.Equal(t, config.ContentTypeText, create.Response.ContentType)

	del := result.Routes[3]
	assert.Equal(t, "/pets/{id}", del.Request.URL)
	assert.Empty(t, del.Response.Data)

	assert.Contains(t, result.Warnings, "/pets/{id}: path parameters are matched literally")
	assert.Contains(t, result.Warnings, "DELETE /pets/{id}: no success response, payload left empty")
}

func TestImportOpenAPI_Errors(t *testing.T) {
	t.Parallel()

	_, err := ImportOpenAPI([]byte("{not yaml"))
	assert.Error(t, err)

	_, err = ImportOpenAPI([]byte("openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n"))
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "document has no paths", perr.Message)
}
