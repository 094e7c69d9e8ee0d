package services

// ServiceContainer holds instances of all the application services.
// It is built once at startup and handed to the handlers and the auth middleware.
type ServiceContainer struct {
	User     UserSvcFacade
	Identity IdentityResolverSvc
	Token    TokenSvc
	Session  SessionSvc
	APIToken APITokenSvc
	OAuth    OAuthClientSelector
}
