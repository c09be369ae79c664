package users

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"minimalapi/internal/cache"
)

func TestRoot(t *testing.T) {
	assert.Equal(t, "My minimal API is up and running!", Root())
}

func TestGetByID(t *testing.T) {
	for _, id := range []int{0, 7, -3, 1 << 30} {
		got := GetByID(id).Message
		assert.Equal(t, "You send the id "+strconv.Itoa(id), got)
	}
}

func TestMessagesEchoInputs(t *testing.T) {
	cases := []struct {
		id   int
		name string
	}{
		{1, "alice"},
		{42, "Bob Smith"},
		{-5, "ünïcødé"},
		{0, ""},
	}

	for _, c := range cases {
		for _, msg := range []string{
			CreateByParams(c.id, c.name).Message,
			CreateByForm(c.id, c.name).Message,
			CreateByModel(User{ID: c.id, Name: c.name}).Message,
		} {
			assert.Contains(t, msg, strconv.Itoa(c.id))
			assert.Contains(t, msg, c.name)
		}
	}
}

func TestCreateByParams(t *testing.T) {
	assert.Equal(t, "You send the id 3 with the name ann", CreateByParams(3, "ann").Message)
	assert.Equal(t, CreateByParams(3, "ann"), CreateByForm(3, "ann"))
}

func TestCreateByModel_TrailingSpace(t *testing.T) {
	got := CreateByModel(User{ID: 9, Name: "zed"}).Message
	assert.Equal(t, "You send a model with the id 9 and name zed ", got)
	assert.True(t, strings.HasSuffix(got, " "))
}

func TestCreateByID(t *testing.T) {
	assert.Equal(t, "You send the id 42", CreateByID(UserID{ID: 42}).Message)
}

func TestCreateByHeader(t *testing.T) {
	assert.Equal(t, "You send the id 8 in the header", CreateByHeader(8).Message)
}

func TestGetWithCache(t *testing.T) {
	small := GetWithCache(5, cache.Small{})
	big := GetWithCache(5, cache.Big{})

	assert.Equal(t, "You send the id 5.", small.Message)
	assert.Equal(t, cache.Small{}.Get("MyKey5"), small.Cache)
	assert.Equal(t, cache.Big{}.Get("MyKey5"), big.Cache)
	assert.NotEqual(t, small.Cache, big.Cache)
}

type recordingCache struct{ keys []string }

func (r *recordingCache) Get(key string) string {
	r.keys = append(r.keys, key)
	return "ok"
}

func TestGetWithCache_KeyDerivation(t *testing.T) {
	rc := &recordingCache{}
	GetWithCache(17, rc)
	assert.Equal(t, []string{"MyKey17"}, rc.keys)
}
