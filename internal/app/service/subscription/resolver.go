package subscription

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/courseshop/pkg/config"
	"github.com/fatflowers/courseshop/pkg/logctx"
	"github.com/fatflowers/courseshop/pkg/types"
)

// Snapshot is what a client sees for its token at a point in time.
// Subscription is nil when the token carries no usable claims.
type Snapshot struct {
	Subscription *types.SubscriptionInfo `json:"subscription"`
	Features     types.Features          `json:"features"`
	// Shape is where the claims came from, for debugging client tokens.
	Shape string `json:"shape"`
}

// Resolver turns identity tokens into subscription snapshots.
type Resolver struct {
	decoder TokenDecoder
	log     *zap.SugaredLogger
}

func NewResolver(cfg *config.Config, log *zap.SugaredLogger) *Resolver {
	return &Resolver{decoder: NewTokenDecoder(cfg.Auth.ClaimsVerifySecret), log: log}
}

// NewResolverWithDecoder is used by tests and the CLI decode command.
func NewResolverWithDecoder(decoder TokenDecoder, log *zap.SugaredLogger) *Resolver {
	if decoder == nil {
		decoder = UnverifiedDecoder{}
	}
	return &Resolver{decoder: decoder, log: log}
}

// Resolve never fails: an undecodable token reads as "no subscription".
func (r *Resolver) Resolve(ctx context.Context, token string, now time.Time) *Snapshot {
	decoded, err := r.decoder.Decode(token)
	if err != nil {
		logctx.FromCtx(ctx, r.log).Debugw("token not decodable, treating as no subscription", "error", err)
		return &Snapshot{Shape: ShapeNone.String()}
	}

	match := MatchClaims(decoded)
	if match.Claims == nil {
		if selected := SelectActive(ExtractClaimsList(decoded), now); selected != nil {
			match = ClaimsMatch{Shape: ShapeList, Claims: selected}
		}
	}
	if match.Claims == nil {
		return &Snapshot{Shape: ShapeNone.String()}
	}

	info := Evaluate(*match.Claims, now)
	return &Snapshot{
		Subscription: info,
		Features:     Features(info),
		Shape:        match.Shape.String(),
	}
}

var Module = fx.Options(
	fx.Provide(NewResolver),
)
