package shared

import "context"

// Actor identifies the authenticated user performing a command. The
// name is what lands in productionStepHistory and rejectionLogs.
type Actor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type actorContextKey struct{}

// ContextWithActor stores the actor in context.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context. The zero Actor is
// returned when no actor is present.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorContextKey{}).(Actor)
	return actor
}
