package entity

import "strings"

type ActorKind string

const (
	ActorUser  ActorKind = "user"
	ActorGuest ActorKind = "guest"
)

// Actor is whoever performs an action: a signed-in user or a guest holding a
// client-generated id. It is comparable and can be used as a map key.
type Actor struct {
	Kind ActorKind
	ID   string
}

func UserActor(uid string) Actor {
	return Actor{Kind: ActorUser, ID: uid}
}

func GuestActor(guestID string) Actor {
	return Actor{Kind: ActorGuest, ID: guestID}
}

func (a Actor) IsGuest() bool {
	return a.Kind == ActorGuest
}

func (a Actor) IsZero() bool {
	return a.ID == ""
}

// Key is the storage form used in reaction rows, e.g. "user:abc".
func (a Actor) Key() string {
	return string(a.Kind) + ":" + a.ID
}

func ParseActorKey(key string) (Actor, bool) {
	kind, id, ok := strings.Cut(key, ":")
	if !ok || id == "" {
		return Actor{}, false
	}
	switch ActorKind(kind) {
	case ActorUser, ActorGuest:
		return Actor{Kind: ActorKind(kind), ID: id}, true
	}
	return Actor{}, false
}
