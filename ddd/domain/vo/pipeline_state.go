package vo

// PipelineState 单个视频转码流水线的状态机状态。
type PipelineState string

const (
	PipelineCreated            PipelineState = "created"
	PipelineKeyMaterialWritten PipelineState = "key_material_written"
	PipelineVariantsInProgress PipelineState = "variants_in_progress"
	PipelineVariantsComplete   PipelineState = "variants_complete"
	PipelineManifestWritten    PipelineState = "manifest_written"
	PipelineTransientCleaned   PipelineState = "transient_cleaned"
	PipelineDone               PipelineState = "done"
	PipelineFailed             PipelineState = "failed"
)

// String 返回状态字符串
func (s PipelineState) String() string {
	return string(s)
}

// IsTerminal 是否为终态
func (s PipelineState) IsTerminal() bool {
	return s == PipelineDone || s == PipelineFailed
}
