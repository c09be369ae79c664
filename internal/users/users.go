// Package users holds the user payload types and the pure functions behind
// each user endpoint. Binding happens in the HTTP layer; nothing here
// parses requests or fails.
package users

import (
	"fmt"

	"minimalapi/internal/cache"
)

// RootMessage is the body returned by the root endpoint.
const RootMessage = "My minimal API is up and running!"

// User is bound from a form or a JSON body.
type User struct {
	ID   int    `json:"id" form:"id"`
	Name string `json:"name" form:"name"`
}

// UserID is bound from a JSON body when only the id is needed.
type UserID struct {
	ID int `json:"id"`
}

// Message is the response of most user endpoints.
type Message struct {
	Message string `json:"message"`
}

// CacheMessage is the response of the cache-backed endpoints.
type CacheMessage struct {
	Message string `json:"message"`
	Cache   string `json:"cache"`
}

// Root returns the status text.
func Root() string {
	return RootMessage
}

// GetByID echoes an id taken from the query string.
func GetByID(id int) Message {
	return Message{Message: fmt.Sprintf("You send the id %d", id)}
}

// CreateByParams echoes an id and name taken from the query string.
func CreateByParams(id int, name string) Message {
	return Message{Message: fmt.Sprintf("You send the id %d with the name %s", id, name)}
}

// CreateByForm echoes an id and name taken from form fields.
func CreateByForm(id int, name string) Message {
	return CreateByParams(id, name)
}

// CreateByModel echoes a whole User, whether it came from a form or JSON.
func CreateByModel(u User) Message {
	return Message{Message: fmt.Sprintf("You send a model with the id %d and name %s ", u.ID, u.Name)}
}

// CreateByID echoes a UserID body.
func CreateByID(u UserID) Message {
	return Message{Message: fmt.Sprintf("You send the id %d", u.ID)}
}

// CreateByHeader echoes an id taken from a request header.
func CreateByHeader(id int) Message {
	return Message{Message: fmt.Sprintf("You send the id %d in the header", id)}
}

// GetWithCache echoes id and looks up its key in c.
func GetWithCache(id int, c cache.Cache) CacheMessage {
	return CacheMessage{
		Message: fmt.Sprintf("You send the id %d.", id),
		Cache:   c.Get(cache.Key(id)),
	}
}
