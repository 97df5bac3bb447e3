package deploy

// SettingKind discriminates the value type carried by a Setting.
type SettingKind int

const (
	// SettingString is a plain string value.
	SettingString SettingKind = iota
	// SettingNumber is an unsigned 32-bit integer value.
	SettingNumber
	// SettingBool is a boolean value (stored as 0/1 by registry writers).
	SettingBool
)

// Setting is one key/value pair of the configuration container.
type Setting struct {
	// Key is the value name inside the configuration container.
	Key string
	// Kind selects which of the fields below carries the value.
	Kind SettingKind
	// Str holds the value for SettingString.
	Str string
	// Num holds the value for SettingNumber.
	Num uint32
	// Flag holds the value for SettingBool.
	Flag bool
}

// ConfigurationSet is the ordered, fixed set of settings the pipeline
// guarantees are present after a run. Applying it twice produces
// identical state.
type ConfigurationSet []Setting

// StringSetting builds a string-valued setting.
func StringSetting(key, value string) Setting {
	return Setting{Key: key, Kind: SettingString, Str: value}
}

// NumberSetting builds an integer-valued setting.
func NumberSetting(key string, value uint32) Setting {
	return Setting{Key: key, Kind: SettingNumber, Num: value}
}

// BoolSetting builds a boolean-valued setting.
func BoolSetting(key string, value bool) Setting {
	return Setting{Key: key, Kind: SettingBool, Flag: value}
}

// ProfileSettings builds the configuration set required for VHD profile
// containers backed by the provided UNC path. sizeInMB is the maximum
// container size and is a policy default hoisted into configuration
// because observed deployments disagree on it.
func ProfileSettings(profilePath string, sizeInMB uint32) ConfigurationSet {
	return ConfigurationSet{
		BoolSetting("Enabled", true),
		StringSetting("VHDLocations", profilePath),
		BoolSetting("AccessNetworkAsComputerObject", true),
		BoolSetting("DeleteLocalProfileWhenVHDShouldApply", true),
		BoolSetting("FlipFlopProfileDirectoryName", true),
		StringSetting("VolumeType", "VHDX"),
		NumberSetting("SizeInMBs", sizeInMB),
	}
}
