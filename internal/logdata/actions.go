// Package logdata parses and queries CARWatch smartphone app logs. Each
// record is a timestamped action with a JSON extras payload whose schema
// depends on the action.
package logdata

// Known log actions emitted by the app.
const (
	ActionAppMetadata             = "app_metadata"
	ActionPhoneMetadata           = "phone_metadata"
	ActionSubjectIDSet            = "subject_id_set"
	ActionAlarmSet                = "alarm_set"
	ActionTimerSet                = "timer_set"
	ActionAlarmCancel             = "alarm_cancel"
	ActionAlarmRing               = "alarm_ring"
	ActionAlarmSnooze             = "alarm_snooze"
	ActionAlarmStop               = "alarm_stop"
	ActionAlarmKillAll            = "alarm_killall"
	ActionEveningSalivette        = "evening_salivette"
	ActionBarcodeScanInit         = "barcode_scan_init"
	ActionBarcodeScanned          = "barcode_scanned"
	ActionInvalidBarcodeScanned   = "invalid_barcode_scanned"
	ActionDuplicateBarcodeScanned = "duplicate_barcode_scanned"
	ActionSpontaneousAwakening    = "spontaneous_awakening"
	ActionLightsOut               = "lights_out"
	ActionDayFinished             = "day_finished"
	ActionServiceStarted          = "service_started"
	ActionServiceStopped          = "service_stopped"
	ActionScreenOff               = "screen_off"
	ActionScreenOn                = "screen_on"
	ActionUserPresent             = "user_present"
	ActionPhoneBootInit           = "phone_boot_init"
	ActionPhoneBootComplete       = "phone_boot_complete"
)

// Extras keys appearing in the per-action JSON payloads.
const (
	ExtraAppVersionCode       = "app_version_code"
	ExtraAppVersionName       = "app_version_name"
	ExtraBrand                = "brand"
	ExtraManufacturer         = "manufacturer"
	ExtraModel                = "model"
	ExtraVersionSDKLevel      = "version_sdk_level"
	ExtraVersionSecurityPatch = "version_security_patch"
	ExtraVersionRelease       = "version_release"
	ExtraSubjectID            = "subject_id"
	ExtraSubjectCondition     = "subject_condition"
	ExtraAlarmID              = "alarm_id"
	ExtraTimestamp            = "timestamp"
	ExtraIsRepeating          = "is_repeating"
	ExtraIsHidden             = "is_hidden"
	ExtraHiddenTimestamp      = "hidden_timestamp"
	ExtraSalivaID             = "saliva_id"
	ExtraSnoozeDuration       = "snooze_duration"
	ExtraSource               = "source"
	ExtraBarcodeValue         = "barcode_value"
	ExtraOtherBarcodes        = "other_barcodes"
	ExtraDayCounter           = "day_counter"
)

// ActionExtras maps each known action to the extras keys its payload is
// expected to carry.
var ActionExtras = map[string][]string{
	ActionAppMetadata:   {ExtraAppVersionCode, ExtraAppVersionName},
	ActionPhoneMetadata: {ExtraBrand, ExtraManufacturer, ExtraModel, ExtraVersionSDKLevel, ExtraVersionSecurityPatch, ExtraVersionRelease},
	ActionSubjectIDSet:  {ExtraSubjectID, ExtraSubjectCondition},
	ActionAlarmSet:      {ExtraAlarmID, ExtraTimestamp, ExtraIsRepeating, ExtraIsHidden, ExtraHiddenTimestamp},
	ActionTimerSet:      {ExtraAlarmID, ExtraTimestamp},
	ActionAlarmCancel:   {ExtraAlarmID},
	ActionAlarmRing:     {ExtraAlarmID, ExtraSalivaID},
	ActionAlarmSnooze:   {ExtraAlarmID, ExtraSnoozeDuration, ExtraSource},
	ActionAlarmStop:     {ExtraAlarmID, ExtraSource, ExtraSalivaID},
	ActionAlarmKillAll:  {},

	ActionEveningSalivette:        {ExtraAlarmID},
	ActionBarcodeScanInit:         {},
	ActionBarcodeScanned:          {ExtraAlarmID, ExtraSalivaID, ExtraBarcodeValue},
	ActionInvalidBarcodeScanned:   {ExtraBarcodeValue},
	ActionDuplicateBarcodeScanned: {ExtraBarcodeValue, ExtraOtherBarcodes},
	ActionSpontaneousAwakening:    {ExtraAlarmID},
	ActionLightsOut:               {},
	ActionDayFinished:             {ExtraDayCounter},
	ActionServiceStarted:          {},
	ActionServiceStopped:          {},
	ActionScreenOff:               {},
	ActionScreenOn:                {},
	ActionUserPresent:             {},
	ActionPhoneBootInit:           {},
	ActionPhoneBootComplete:       {},
}

// SubjectConditions maps raw condition codes to display names. Unknown
// codes fall back to the UNDEFINED entry.
var SubjectConditions = map[string]string{
	"UNDEFINED":     "Undefined",
	"KNOWN_ALARM":   "Known Alarm",
	"UNKNOWN_ALARM": "Unknown Alarm",
	"SPONTANEOUS":   "Spontaneous Awakening",
}

// SmartphoneModels maps device model codes to marketing names.
var SmartphoneModels = map[string]string{
	"Nexus 7":       "Google Nexus 7",
	"HTC 10":        "HTC 10",
	"ALE-L21":       "Huawei P8 Lite",
	"VTR-L29":       "Huawei P10",
	"VOG-L29":       "Huawei P30 Pro",
	"FIG-LX1":       "Huawei P Smart",
	"MEDION S5004":  "MEDION S5004",
	"Moto G (4)":    "Motorola Moto G4",
	"Moto G (5)":    "Motorola Moto G5",
	"ONEPLUS A6013": "OnePlus 6T",
	"Redmi Note 7":  "Redmi Note 7",
	"SM-G920F":      "Samsung Galaxy S6",
	"SM-G930F":      "Samsung Galaxy S7",
	"SM-G950F":      "Samsung Galaxy S8",
	"SM-G973F":      "Samsung Galaxy S10",
	"SM-G970F":      "Samsung Galaxy S10e",
	"SM-A750FN":     "Samsung Galaxy A7",
	"SM-A205F":      "Samsung Galaxy A20",
	"SM-A520F":      "Samsung Galaxy A5",
	"SM-A500FU":     "Samsung Galaxy A5",
	"Mi A1":         "Xiaomi Mi A1",
}

// ConditionName resolves a raw condition code to its display name,
// defaulting to Undefined.
func ConditionName(code string) string {
	if name, ok := SubjectConditions[code]; ok {
		return name
	}
	return SubjectConditions["UNDEFINED"]
}

// ModelName resolves a device model code to its marketing name; unknown
// codes pass through unchanged.
func ModelName(code string) string {
	if name, ok := SmartphoneModels[code]; ok {
		return name
	}
	return code
}
