package registration

// Config holds registration localization settings.
type Config struct {
	// CountryCode prefixes normalized phone numbers.
	CountryCode string `mapstructure:"country_code" default:"+218"`
	// TimeZone is used when rendering registration dates for people.
	TimeZone string `mapstructure:"time_zone" default:"Africa/Tripoli"`
}
