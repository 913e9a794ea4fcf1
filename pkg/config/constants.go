package config

const (
	// EnvPrefix is empty because every field carries its full variable name.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "STOREFRONT_APP_ENV"
	EnvPort            = "STOREFRONT_APP_PORT"
	EnvUpstreamBaseURL = "STOREFRONT_UPSTREAM_BASE_URL"
	EnvUpstreamTimeout = "STOREFRONT_UPSTREAM_TIMEOUT"
	EnvRedisURL        = "STOREFRONT_REDIS_URL"
	EnvJWTSecret       = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer       = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins      = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvCartDebounce    = "STOREFRONT_CART_DEBOUNCE"
	EnvWishlistFanout  = "STOREFRONT_WISHLIST_FANOUT"
	EnvCatalogCacheTTL = "STOREFRONT_CATALOG_CACHE_TTL"
	EnvCheckoutReturn  = "STOREFRONT_CHECKOUT_RETURN_URL"
	EnvCORSOrigins     = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)
