package powerbi

import (
	"fmt"
	"slices"
)

// GroupUserAccessRight is the access right a principal holds on a workspace.
type GroupUserAccessRight string

const (
	GroupUserAccessRightAdmin       GroupUserAccessRight = "Admin"
	GroupUserAccessRightContributor GroupUserAccessRight = "Contributor"
	GroupUserAccessRightMember      GroupUserAccessRight = "Member"
	GroupUserAccessRightViewer      GroupUserAccessRight = "Viewer"
	GroupUserAccessRightNone        GroupUserAccessRight = "None"
)

// Validate implements Validator.
func (v GroupUserAccessRight) Validate() error {
	return oneOf("group user access right", v,
		GroupUserAccessRightAdmin, GroupUserAccessRightContributor, GroupUserAccessRightMember,
		GroupUserAccessRightViewer, GroupUserAccessRightNone)
}

// PrincipalType identifies the kind of principal being granted access.
type PrincipalType string

const (
	PrincipalTypeApp   PrincipalType = "App"
	PrincipalTypeGroup PrincipalType = "Group"
	PrincipalTypeUser  PrincipalType = "User"
	PrincipalTypeNone  PrincipalType = "None"
)

// Validate implements Validator.
func (v PrincipalType) Validate() error {
	return oneOf("principal type", v, PrincipalTypeApp, PrincipalTypeGroup, PrincipalTypeUser, PrincipalTypeNone)
}

// ImportConflictHandlerMode decides what happens when an import collides with an existing item.
type ImportConflictHandlerMode string

const (
	ImportConflictAbort              ImportConflictHandlerMode = "Abort"
	ImportConflictCreateOrOverwrite  ImportConflictHandlerMode = "CreateOrOverwrite"
	ImportConflictGenerateUniqueName ImportConflictHandlerMode = "GenerateUniqueName"
	ImportConflictIgnore             ImportConflictHandlerMode = "Ignore"
	ImportConflictOverwrite          ImportConflictHandlerMode = "Overwrite"
)

// Validate implements Validator.
func (v ImportConflictHandlerMode) Validate() error {
	return oneOf("import conflict handler mode", v,
		ImportConflictAbort, ImportConflictCreateOrOverwrite, ImportConflictGenerateUniqueName,
		ImportConflictIgnore, ImportConflictOverwrite)
}

// ExportFileFormat is the target format of an export-to-file job.
type ExportFileFormat string

const (
	ExportFormatAccessiblePDF ExportFileFormat = "ACCESSIBLEPDF"
	ExportFormatCSV           ExportFileFormat = "CSV"
	ExportFormatDOCX          ExportFileFormat = "DOCX"
	ExportFormatIMAGE         ExportFileFormat = "IMAGE"
	ExportFormatMHTML         ExportFileFormat = "MHTML"
	ExportFormatPDF           ExportFileFormat = "PDF"
	ExportFormatPNG           ExportFileFormat = "PNG"
	ExportFormatPPTX          ExportFileFormat = "PPTX"
	ExportFormatXLSX          ExportFileFormat = "XLSX"
	ExportFormatXML           ExportFileFormat = "XML"
)

// Validate implements Validator.
func (v ExportFileFormat) Validate() error {
	return oneOf("export file format", v,
		ExportFormatAccessiblePDF, ExportFormatCSV, ExportFormatDOCX, ExportFormatIMAGE, ExportFormatMHTML,
		ExportFormatPDF, ExportFormatPNG, ExportFormatPPTX, ExportFormatXLSX, ExportFormatXML)
}

// DatasourceAccessRight is the access right on a gateway datasource.
type DatasourceAccessRight string

const (
	DatasourceAccessRead                          DatasourceAccessRight = "Read"
	DatasourceAccessReadOverrideEffectiveIdentity DatasourceAccessRight = "ReadOverrideEffectiveIdentity"
	DatasourceAccessNone                          DatasourceAccessRight = "None"
)

// Validate implements Validator.
func (v DatasourceAccessRight) Validate() error {
	return oneOf("datasource access right", v,
		DatasourceAccessRead, DatasourceAccessReadOverrideEffectiveIdentity, DatasourceAccessNone)
}

// CredentialType is the credential kind stored on a gateway datasource.
type CredentialType string

const (
	CredentialTypeAnonymous CredentialType = "Anonymous"
	CredentialTypeBasic     CredentialType = "Basic"
	CredentialTypeKey       CredentialType = "Key"
	CredentialTypeOAuth2    CredentialType = "OAuth2"
	CredentialTypeSAS       CredentialType = "SAS"
	CredentialTypeWindows   CredentialType = "Windows"
)

// Validate implements Validator.
func (v CredentialType) Validate() error {
	return oneOf("credential type", v,
		CredentialTypeAnonymous, CredentialTypeBasic, CredentialTypeKey,
		CredentialTypeOAuth2, CredentialTypeSAS, CredentialTypeWindows)
}

// EncryptedConnection tells the gateway whether to encrypt the datasource connection.
type EncryptedConnection string

const (
	ConnectionEncrypted    EncryptedConnection = "Encrypted"
	ConnectionNotEncrypted EncryptedConnection = "NotEncrypted"
)

// Validate implements Validator.
func (v EncryptedConnection) Validate() error {
	return oneOf("encrypted connection", v, ConnectionEncrypted, ConnectionNotEncrypted)
}

// EncryptionAlgorithm used for datasource credentials.
type EncryptionAlgorithm string

const (
	EncryptionNone    EncryptionAlgorithm = "None"
	EncryptionRSAOAEP EncryptionAlgorithm = "RSA-OAEP"
)

// Validate implements Validator.
func (v EncryptionAlgorithm) Validate() error {
	return oneOf("encryption algorithm", v, EncryptionNone, EncryptionRSAOAEP)
}

// PrivacyLevel of a datasource.
type PrivacyLevel string

const (
	PrivacyLevelPublic         PrivacyLevel = "Public"
	PrivacyLevelOrganizational PrivacyLevel = "Organizational"
	PrivacyLevelPrivate        PrivacyLevel = "Private"
	PrivacyLevelNone           PrivacyLevel = "None"
)

// Validate implements Validator.
func (v PrivacyLevel) Validate() error {
	return oneOf("privacy level", v, PrivacyLevelPublic, PrivacyLevelOrganizational, PrivacyLevelPrivate, PrivacyLevelNone)
}

// WorkloadState enables or disables a capacity workload.
type WorkloadState string

const (
	WorkloadStateEnabled     WorkloadState = "Enabled"
	WorkloadStateDisabled    WorkloadState = "Disabled"
	WorkloadStateUnsupported WorkloadState = "Unsupported"
)

// Validate implements Validator.
func (v WorkloadState) Validate() error {
	return oneOf("workload state", v, WorkloadStateEnabled, WorkloadStateDisabled, WorkloadStateUnsupported)
}

// NotifyOption controls refresh completion mails.
type NotifyOption string

const (
	NotifyMailOnFailure    NotifyOption = "MailOnFailure"
	NotifyMailOnCompletion NotifyOption = "MailOnCompletion"
	NotifyNoNotification   NotifyOption = "NoNotification"
)

// Validate implements Validator.
func (v NotifyOption) Validate() error {
	return oneOf("notify option", v, NotifyMailOnFailure, NotifyMailOnCompletion, NotifyNoNotification)
}

// ComputeEngineBehavior of a dataflow.
type ComputeEngineBehavior string

const (
	ComputeEngineOptimized ComputeEngineBehavior = "computeOptimized"
	ComputeEngineOn        ComputeEngineBehavior = "computeOn"
	ComputeEngineDisabled  ComputeEngineBehavior = "computeDisabled"
)

// Validate implements Validator.
func (v ComputeEngineBehavior) Validate() error {
	return oneOf("compute engine behavior", v, ComputeEngineOptimized, ComputeEngineOn, ComputeEngineDisabled)
}

// TokenAccessLevel of a generated embed token.
type TokenAccessLevel string

const (
	TokenAccessView   TokenAccessLevel = "View"
	TokenAccessEdit   TokenAccessLevel = "Edit"
	TokenAccessCreate TokenAccessLevel = "Create"
)

// Validate implements Validator.
func (v TokenAccessLevel) Validate() error {
	return oneOf("token access level", v, TokenAccessView, TokenAccessEdit, TokenAccessCreate)
}

// DatasetRetentionPolicy applies to push datasets.
type DatasetRetentionPolicy string

const (
	RetentionPolicyNone      DatasetRetentionPolicy = "None"
	RetentionPolicyBasicFIFO DatasetRetentionPolicy = "basicFIFO"
)

// Validate implements Validator.
func (v DatasetRetentionPolicy) Validate() error {
	return oneOf("dataset retention policy", v, RetentionPolicyNone, RetentionPolicyBasicFIFO)
}

// Validator is implemented by every enumeration accepted at the API boundary.
type Validator interface {
	Validate() error
}

// ValidateOptional validates v unless it is the zero value.
func ValidateOptional[T ~string](v T) error {
	if v == "" {
		return nil
	}

	validator, ok := any(v).(Validator)
	if !ok {
		return nil
	}

	return validator.Validate()
}

func oneOf[T ~string](kind string, value T, allowed ...T) error {
	if slices.Contains(allowed, value) {
		return nil
	}

	return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidEnumValue, string(value), kind)
}
