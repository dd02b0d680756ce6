package sso

import "sort"

// EndpointConfig is one catalog entry: the endpoint set for a provider plus
// the field-path map used to normalize its user-info response. Entries are
// compiled in and shared read-only across requests.
//
// Endpoint URLs may contain {key} placeholders (e.g. {domain}, {realm})
// resolved from a record's extra_config at request time.
type EndpointConfig struct {
	TokenURL         string
	UserInfoURL      string
	AuthorizationURL string
	// UserInfoMap maps the logical fields id/email/name/picture onto
	// field-path expressions in the provider's response. Fields without an
	// entry normalize to empty ("id" alone falls back to path "id", then
	// "sub").
	UserInfoMap map[string]string
}

// oidcMap covers providers whose user-info endpoint returns standard OIDC
// claims.
var oidcMap = map[string]string{
	"email":   "email",
	"name":    "name",
	"picture": "picture",
}

// Catalog returns the built-in endpoint configuration for slug. The second
// return is false for unknown slugs.
func Catalog(slug string) (EndpointConfig, bool) {
	c, ok := builtinCatalog[slug]
	return c, ok
}

// CatalogSlugs returns every slug present in the built-in catalog, sorted.
func CatalogSlugs() []string {
	out := make([]string, 0, len(builtinCatalog))
	for slug := range builtinCatalog {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// builtinCatalog holds the endpoint sets for the supported generic providers.
// Dedicated adapters (google, github, facebook) also appear here so the
// catalog alone is enough to drive authorization-URL building, but the
// registry always prefers the dedicated implementation.
var builtinCatalog = map[string]EndpointConfig{
	"google": {
		TokenURL:         "https://oauth2.googleapis.com/token",
		UserInfoURL:      "https://www.googleapis.com/oauth2/v2/userinfo",
		AuthorizationURL: "https://accounts.google.com/o/oauth2/v2/auth",
		UserInfoMap:      oidcMap,
	},
	"github": {
		TokenURL:         "https://github.com/login/oauth/access_token",
		UserInfoURL:      "https://api.github.com/user",
		AuthorizationURL: "https://github.com/login/oauth/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "name", "picture": "avatar_url"},
	},
	"facebook": {
		TokenURL:         "https://graph.facebook.com/v18.0/oauth/access_token",
		UserInfoURL:      "https://graph.facebook.com/me?fields=id,name,email,picture",
		AuthorizationURL: "https://www.facebook.com/v18.0/dialog/oauth",
		UserInfoMap:      map[string]string{"email": "email", "name": "name", "picture": "picture.data.url"},
	},
	"microsoft": {
		TokenURL:         "https://login.microsoftonline.com/{tenant}/oauth2/v2.0/token",
		UserInfoURL:      "https://graph.microsoft.com/v1.0/me",
		AuthorizationURL: "https://login.microsoftonline.com/{tenant}/oauth2/v2.0/authorize",
		UserInfoMap:      map[string]string{"email": "mail", "name": "displayName"},
	},
	"apple": {
		TokenURL:         "https://appleid.apple.com/auth/token",
		AuthorizationURL: "https://appleid.apple.com/auth/authorize",
		// Apple has no user-info endpoint; identity comes from the ID token.
	},
	"okta": {
		TokenURL:         "https://{domain}/oauth2/default/v1/token",
		UserInfoURL:      "https://{domain}/oauth2/default/v1/userinfo",
		AuthorizationURL: "https://{domain}/oauth2/default/v1/authorize",
		UserInfoMap:      oidcMap,
	},
	"auth0": {
		TokenURL:         "https://{domain}/oauth/token",
		UserInfoURL:      "https://{domain}/userinfo",
		AuthorizationURL: "https://{domain}/authorize",
		UserInfoMap:      oidcMap,
	},
	"keycloak": {
		TokenURL:         "{base_url}/realms/{realm}/protocol/openid-connect/token",
		UserInfoURL:      "{base_url}/realms/{realm}/protocol/openid-connect/userinfo",
		AuthorizationURL: "{base_url}/realms/{realm}/protocol/openid-connect/auth",
		UserInfoMap:      oidcMap,
	},
	"authentik": {
		TokenURL:         "{base_url}/application/o/token/",
		UserInfoURL:      "{base_url}/application/o/userinfo/",
		AuthorizationURL: "{base_url}/application/o/authorize/",
		UserInfoMap:      oidcMap,
	},
	"onelogin": {
		TokenURL:         "https://{subdomain}.onelogin.com/oidc/2/token",
		UserInfoURL:      "https://{subdomain}.onelogin.com/oidc/2/me",
		AuthorizationURL: "https://{subdomain}.onelogin.com/oidc/2/auth",
		UserInfoMap:      oidcMap,
	},
	"pingone": {
		TokenURL:         "https://auth.pingone.com/{environment_id}/as/token",
		UserInfoURL:      "https://auth.pingone.com/{environment_id}/as/userinfo",
		AuthorizationURL: "https://auth.pingone.com/{environment_id}/as/authorize",
		UserInfoMap:      oidcMap,
	},
	"cognito": {
		TokenURL:         "https://{domain}/oauth2/token",
		UserInfoURL:      "https://{domain}/oauth2/userInfo",
		AuthorizationURL: "https://{domain}/oauth2/authorize",
		UserInfoMap:      oidcMap,
	},
	"fusionauth": {
		TokenURL:         "{base_url}/oauth2/token",
		UserInfoURL:      "{base_url}/oauth2/userinfo",
		AuthorizationURL: "{base_url}/oauth2/authorize",
		UserInfoMap:      oidcMap,
	},
	"gitlab": {
		TokenURL:         "https://gitlab.com/oauth/token",
		UserInfoURL:      "https://gitlab.com/api/v4/user",
		AuthorizationURL: "https://gitlab.com/oauth/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "name", "picture": "avatar_url"},
	},
	"gitea": {
		TokenURL:         "{base_url}/login/oauth/access_token",
		UserInfoURL:      "{base_url}/api/v1/user",
		AuthorizationURL: "{base_url}/login/oauth/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "full_name", "picture": "avatar_url"},
	},
	"bitbucket": {
		TokenURL:         "https://bitbucket.org/site/oauth2/access_token",
		UserInfoURL:      "https://api.bitbucket.org/2.0/user",
		AuthorizationURL: "https://bitbucket.org/site/oauth2/authorize",
		UserInfoMap:      map[string]string{"name": "display_name", "picture": "links.avatar.href"},
	},
	"slack": {
		TokenURL:         "https://slack.com/api/openid.connect.token",
		UserInfoURL:      "https://slack.com/api/openid.connect.userInfo",
		AuthorizationURL: "https://slack.com/openid/connect/authorize",
		UserInfoMap:      oidcMap,
	},
	"discord": {
		TokenURL:         "https://discord.com/api/oauth2/token",
		UserInfoURL:      "https://discord.com/api/users/@me",
		AuthorizationURL: "https://discord.com/api/oauth2/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "username"},
	},
	"twitch": {
		TokenURL:         "https://id.twitch.tv/oauth2/token",
		UserInfoURL:      "https://api.twitch.tv/helix/users",
		AuthorizationURL: "https://id.twitch.tv/oauth2/authorize",
		// Helix wraps the user in a "data" array; unwrap handles it.
		UserInfoMap: map[string]string{"email": "email", "name": "display_name", "picture": "profile_image_url"},
	},
	"spotify": {
		TokenURL:         "https://accounts.spotify.com/api/token",
		UserInfoURL:      "https://api.spotify.com/v1/me",
		AuthorizationURL: "https://accounts.spotify.com/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "display_name", "picture": "images[0].url"},
	},
	"linkedin": {
		TokenURL:         "https://www.linkedin.com/oauth/v2/accessToken",
		UserInfoURL:      "https://api.linkedin.com/v2/userinfo",
		AuthorizationURL: "https://www.linkedin.com/oauth/v2/authorization",
		UserInfoMap:      oidcMap,
	},
	"twitter": {
		TokenURL:         "https://api.twitter.com/2/oauth2/token",
		UserInfoURL:      "https://api.twitter.com/2/users/me?user.fields=profile_image_url",
		AuthorizationURL: "https://twitter.com/i/oauth2/authorize",
		// v2 wraps the user object in "data".
		UserInfoMap: map[string]string{"name": "name", "picture": "profile_image_url"},
	},
	"dropbox": {
		TokenURL:         "https://api.dropboxapi.com/oauth2/token",
		UserInfoURL:      "https://api.dropboxapi.com/2/openid/userinfo",
		AuthorizationURL: "https://www.dropbox.com/oauth2/authorize",
		UserInfoMap:      oidcMap,
	},
	"box": {
		TokenURL:         "https://api.box.com/oauth2/token",
		UserInfoURL:      "https://api.box.com/2.0/users/me",
		AuthorizationURL: "https://account.box.com/api/oauth2/authorize",
		UserInfoMap:      map[string]string{"email": "login", "name": "name", "picture": "avatar_url"},
	},
	"zoom": {
		TokenURL:         "https://zoom.us/oauth/token",
		UserInfoURL:      "https://api.zoom.us/v2/users/me",
		AuthorizationURL: "https://zoom.us/oauth/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "display_name", "picture": "pic_url"},
	},
	"salesforce": {
		TokenURL:         "https://login.salesforce.com/services/oauth2/token",
		UserInfoURL:      "https://login.salesforce.com/services/oauth2/userinfo",
		AuthorizationURL: "https://login.salesforce.com/services/oauth2/authorize",
		UserInfoMap:      oidcMap,
	},
	"atlassian": {
		TokenURL:         "https://auth.atlassian.com/oauth/token",
		UserInfoURL:      "https://api.atlassian.com/me",
		AuthorizationURL: "https://auth.atlassian.com/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "name", "picture": "picture"},
	},
	"zendesk": {
		TokenURL:         "https://{subdomain}.zendesk.com/oauth/tokens",
		UserInfoURL:      "https://{subdomain}.zendesk.com/api/v2/users/me.json",
		AuthorizationURL: "https://{subdomain}.zendesk.com/oauth/authorizations/new",
		// Zendesk wraps the record in a "user" key; unwrap handles it.
		UserInfoMap: map[string]string{"email": "email", "name": "name", "picture": "photo.content_url"},
	},
	"shopify": {
		TokenURL:         "https://{shop}.myshopify.com/admin/oauth/access_token",
		AuthorizationURL: "https://{shop}.myshopify.com/admin/oauth/authorize",
	},
	"hubspot": {
		TokenURL:         "https://api.hubapi.com/oauth/v1/token",
		AuthorizationURL: "https://app.hubspot.com/oauth/authorize",
	},
	"asana": {
		TokenURL:         "https://app.asana.com/-/oauth_token",
		UserInfoURL:      "https://app.asana.com/api/1.0/users/me",
		AuthorizationURL: "https://app.asana.com/-/oauth_authorize",
		// Asana wraps the record in "data".
		UserInfoMap: map[string]string{"id": "gid", "email": "email", "name": "name", "picture": "photo.image_128x128"},
	},
	"notion": {
		TokenURL:         "https://api.notion.com/v1/oauth/token",
		AuthorizationURL: "https://api.notion.com/v1/oauth/authorize",
	},
	"linear": {
		TokenURL:         "https://api.linear.app/oauth/token",
		AuthorizationURL: "https://linear.app/oauth/authorize",
	},
	"figma": {
		TokenURL:         "https://www.figma.com/api/oauth/token",
		UserInfoURL:      "https://api.figma.com/v1/me",
		AuthorizationURL: "https://www.figma.com/oauth",
		UserInfoMap:      map[string]string{"email": "email", "name": "handle", "picture": "img_url"},
	},
	"miro": {
		TokenURL:         "https://api.miro.com/v1/oauth/token",
		UserInfoURL:      "https://api.miro.com/v1/users/me",
		AuthorizationURL: "https://miro.com/oauth/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "name", "picture": "picture.imageUrl"},
	},
	"intercom": {
		TokenURL:         "https://api.intercom.io/auth/eagle/token",
		UserInfoURL:      "https://api.intercom.io/me",
		AuthorizationURL: "https://app.intercom.com/oauth",
		UserInfoMap:      map[string]string{"email": "email", "name": "name"},
	},
	"mailchimp": {
		TokenURL:         "https://login.mailchimp.com/oauth2/token",
		UserInfoURL:      "https://login.mailchimp.com/oauth2/metadata",
		AuthorizationURL: "https://login.mailchimp.com/oauth2/authorize",
		UserInfoMap:      map[string]string{"id": "user_id", "name": "accountname"},
	},
	"reddit": {
		TokenURL:         "https://www.reddit.com/api/v1/access_token",
		UserInfoURL:      "https://oauth.reddit.com/api/v1/me",
		AuthorizationURL: "https://www.reddit.com/api/v1/authorize",
		UserInfoMap:      map[string]string{"name": "name", "picture": "icon_img"},
	},
	"pinterest": {
		TokenURL:         "https://api.pinterest.com/v5/oauth/token",
		UserInfoURL:      "https://api.pinterest.com/v5/user_account",
		AuthorizationURL: "https://www.pinterest.com/oauth",
		UserInfoMap:      map[string]string{"name": "username", "picture": "profile_image"},
	},
	"tiktok": {
		TokenURL:         "https://open.tiktokapis.com/v2/oauth/token/",
		UserInfoURL:      "https://open.tiktokapis.com/v2/user/info/?fields=open_id,display_name,avatar_url",
		AuthorizationURL: "https://www.tiktok.com/v2/auth/authorize/",
		// TikTok nests the record under data.user; "data" unwrap plus the
		// "user" stage resolve it.
		UserInfoMap: map[string]string{"id": "open_id", "name": "display_name", "picture": "avatar_url"},
	},
	"instagram": {
		TokenURL:         "https://api.instagram.com/oauth/access_token",
		UserInfoURL:      "https://graph.instagram.com/me?fields=id,username",
		AuthorizationURL: "https://api.instagram.com/oauth/authorize",
		UserInfoMap:      map[string]string{"name": "username"},
	},
	"amazon": {
		TokenURL:         "https://api.amazon.com/auth/o2/token",
		UserInfoURL:      "https://api.amazon.com/user/profile",
		AuthorizationURL: "https://www.amazon.com/ap/oa",
		UserInfoMap:      map[string]string{"id": "user_id", "email": "email", "name": "name"},
	},
	"yahoo": {
		TokenURL:         "https://api.login.yahoo.com/oauth2/get_token",
		UserInfoURL:      "https://api.login.yahoo.com/openid/v1/userinfo",
		AuthorizationURL: "https://api.login.yahoo.com/oauth2/request_auth",
		UserInfoMap:      oidcMap,
	},
	"yandex": {
		TokenURL:         "https://oauth.yandex.com/token",
		UserInfoURL:      "https://login.yandex.ru/info",
		AuthorizationURL: "https://oauth.yandex.com/authorize",
		UserInfoMap:      map[string]string{"email": "default_email", "name": "real_name"},
	},
	"vk": {
		TokenURL:         "https://oauth.vk.com/access_token",
		UserInfoURL:      "https://api.vk.com/method/users.get?v=5.131&fields=photo_200",
		AuthorizationURL: "https://oauth.vk.com/authorize",
		// users.get returns {"response": [user]}; the response key stays an
		// array so unwrap leaves it alone and paths address it directly.
		UserInfoMap: map[string]string{"id": "response[0].id", "name": "response[0].first_name", "picture": "response[0].photo_200"},
	},
	"kakao": {
		TokenURL:         "https://kauth.kakao.com/oauth/token",
		UserInfoURL:      "https://kapi.kakao.com/v2/user/me",
		AuthorizationURL: "https://kauth.kakao.com/oauth/authorize",
		UserInfoMap: map[string]string{
			"email":   "kakao_account.email",
			"name":    "kakao_account.profile.nickname",
			"picture": "kakao_account.profile.profile_image_url",
		},
	},
	"naver": {
		TokenURL:         "https://nid.naver.com/oauth2.0/token",
		UserInfoURL:      "https://openapi.naver.com/v1/nid/me",
		AuthorizationURL: "https://nid.naver.com/oauth2.0/authorize",
		// Naver wraps the record in "response"; unwrap handles it.
		UserInfoMap: map[string]string{"email": "email", "name": "name", "picture": "profile_image"},
	},
	"line": {
		TokenURL:         "https://api.line.me/oauth2/v2.1/token",
		UserInfoURL:      "https://api.line.me/v2/profile",
		AuthorizationURL: "https://access.line.me/oauth2/v2.1/authorize",
		UserInfoMap:      map[string]string{"id": "userId", "name": "displayName", "picture": "pictureUrl"},
	},
	"digitalocean": {
		TokenURL:         "https://cloud.digitalocean.com/v1/oauth/token",
		UserInfoURL:      "https://api.digitalocean.com/v2/account",
		AuthorizationURL: "https://cloud.digitalocean.com/v1/oauth/authorize",
		UserInfoMap:      map[string]string{"id": "account.uuid", "email": "account.email"},
	},
	"heroku": {
		TokenURL:         "https://id.heroku.com/oauth/token",
		UserInfoURL:      "https://api.heroku.com/account",
		AuthorizationURL: "https://id.heroku.com/oauth/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "name"},
	},
	"strava": {
		TokenURL:         "https://www.strava.com/oauth/token",
		UserInfoURL:      "https://www.strava.com/api/v3/athlete",
		AuthorizationURL: "https://www.strava.com/oauth/authorize",
		UserInfoMap:      map[string]string{"name": "firstname", "picture": "profile"},
	},
	"fitbit": {
		TokenURL:         "https://api.fitbit.com/oauth2/token",
		UserInfoURL:      "https://api.fitbit.com/1/user/-/profile.json",
		AuthorizationURL: "https://www.fitbit.com/oauth2/authorize",
		// Fitbit wraps the record in "user"; unwrap handles it.
		UserInfoMap: map[string]string{"id": "encodedId", "name": "fullName", "picture": "avatar"},
	},
	"patreon": {
		TokenURL:         "https://www.patreon.com/api/oauth2/token",
		UserInfoURL:      "https://www.patreon.com/api/oauth2/v2/identity",
		AuthorizationURL: "https://www.patreon.com/oauth2/authorize",
		// JSON:API envelope: everything lives under data.attributes.
		UserInfoMap: map[string]string{"email": "attributes.email", "name": "attributes.full_name", "picture": "attributes.image_url"},
	},
	"coinbase": {
		TokenURL:         "https://api.coinbase.com/oauth/token",
		UserInfoURL:      "https://api.coinbase.com/v2/user",
		AuthorizationURL: "https://www.coinbase.com/oauth/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "name", "picture": "avatar_url"},
	},
	"battlenet": {
		TokenURL:         "https://oauth.battle.net/token",
		UserInfoURL:      "https://oauth.battle.net/userinfo",
		AuthorizationURL: "https://oauth.battle.net/authorize",
		UserInfoMap:      map[string]string{"name": "battletag"},
	},
	"eventbrite": {
		TokenURL:         "https://www.eventbrite.com/oauth/token",
		UserInfoURL:      "https://www.eventbriteapi.com/v3/users/me/",
		AuthorizationURL: "https://www.eventbrite.com/oauth/authorize",
		UserInfoMap:      map[string]string{"email": "emails[0].email", "name": "name", "picture": "image_id"},
	},
	"todoist": {
		TokenURL:         "https://todoist.com/oauth/access_token",
		UserInfoURL:      "https://api.todoist.com/sync/v9/user",
		AuthorizationURL: "https://todoist.com/oauth/authorize",
		UserInfoMap:      map[string]string{"email": "email", "name": "full_name", "picture": "avatar_big"},
	},
	"wordpress": {
		TokenURL:         "https://public-api.wordpress.com/oauth2/token",
		UserInfoURL:      "https://public-api.wordpress.com/rest/v1/me",
		AuthorizationURL: "https://public-api.wordpress.com/oauth2/authorize",
		UserInfoMap:      map[string]string{"id": "ID", "email": "email", "name": "display_name", "picture": "avatar_URL"},
	},
	"stackexchange": {
		TokenURL:         "https://stackoverflow.com/oauth/access_token/json",
		UserInfoURL:      "https://api.stackexchange.com/2.3/me?site=stackoverflow",
		AuthorizationURL: "https://stackoverflow.com/oauth",
		UserInfoMap:      map[string]string{"id": "items[0].user_id", "name": "items[0].display_name", "picture": "items[0].profile_image"},
	},
}
