package util

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

var limits = ListLimits{DefaultLimit: 25, MaxLimit: 100}

func contextWithQuery(values url.Values) *gin.Context {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/items?"+values.Encode(), nil)

	return c
}

func TestParseListQuery_Defaults(t *testing.T) {
	RegisterTestingT(t)

	query, err := ParseListQuery(contextWithQuery(url.Values{}), limits)

	Expect(err).To(BeNil())
	Expect(query.Offset).To(Equal(0))
	Expect(query.Limit).To(Equal(25))
	Expect(query.OrderBy).To(Equal("id"))
	Expect(query.Descending).To(BeFalse())
	Expect(query.OwnerID).To(BeNil())
}

func TestParseListQuery_RangeAndSort(t *testing.T) {
	RegisterTestingT(t)

	query, err := ParseListQuery(contextWithQuery(url.Values{
		"range": {"[10,19]"},
		"sort":  {`["duration","DESC"]`},
	}), limits)

	Expect(err).To(BeNil())
	Expect(query.Offset).To(Equal(10))
	Expect(query.Limit).To(Equal(10))
	Expect(query.OrderBy).To(Equal("duration"))
	Expect(query.Descending).To(BeTrue())
}

func TestParseListQuery_CapsLimit(t *testing.T) {
	query, err := ParseListQuery(contextWithQuery(url.Values{"range": {"[0,999]"}}), limits)

	assert.NoError(t, err)
	assert.Equal(t, 100, query.Limit)
}

func TestParseListQuery_CapsUnboundedRange(t *testing.T) {
	query, err := ParseListQuery(contextWithQuery(url.Values{"range": {"[5,9223372036854775807]"}}), limits)

	assert.NoError(t, err)
	assert.Equal(t, 5, query.Offset)
	assert.Equal(t, 100, query.Limit)
}

func TestParseListQuery_Invalid(t *testing.T) {
	cases := map[string]url.Values{
		"malformed range":  {"range": {"0-9"}},
		"reversed range":   {"range": {"[9,0]"}},
		"negative start":   {"range": {"[-1,5]"}},
		"unknown field":    {"sort": {`["user_id","ASC"]`}},
		"unknown order":    {"sort": {`["id","UP"]`}},
		"short sort array": {"sort": {`["id"]`}},
	}

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseListQuery(contextWithQuery(values), limits)

			assert.Error(t, err)
		})
	}
}
