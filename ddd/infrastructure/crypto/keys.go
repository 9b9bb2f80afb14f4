package crypto

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"hls-vod-service/pkg/logger"
)

const (
	// KeySize AES-128 密钥长度（字节）
	KeySize = 16
	// IVSize 初始向量长度（字节）
	IVSize = 16

	// KeyFileName 瞬态密钥文件名
	KeyFileName = "enc.key"
	// KeyInfoFileName ffmpeg -hls_key_info_file 消费的描述文件名
	KeyInfoFileName = "enc.keyinfo"
)

// GenerateKey 生成16字节随机AES密钥。熵源不可用时返回错误，不可恢复。
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate aes key: %w", err)
	}
	return key, nil
}

// GenerateIV 生成16字节随机IV，失败语义与GenerateKey相同。
func GenerateIV() ([]byte, error) {
	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	return iv, nil
}

// KeyFilePath 瞬态密钥文件的绝对位置
func KeyFilePath(outputDir string) string {
	return filepath.Join(outputDir, KeyFileName)
}

// KeyInfoFilePath 瞬态keyinfo文件的绝对位置
func KeyInfoFilePath(outputDir string) string {
	return filepath.Join(outputDir, KeyInfoFileName)
}

// WriteTransientKeyArtifacts 写出enc.key与enc.keyinfo两个瞬态文件，
// 权限0600，只在一次流水线运行期间存在。keyinfo共三行：
// 密钥下发URL、密钥文件路径、IV十六进制。
func WriteTransientKeyArtifacts(outputDir string, keyBytes []byte, ivHex, keyDeliveryURL string) error {
	if len(keyBytes) != KeySize {
		return fmt.Errorf("key must be %d bytes, got %d", KeySize, len(keyBytes))
	}
	keyPath := KeyFilePath(outputDir)
	if err := os.WriteFile(keyPath, keyBytes, 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}

	keyInfo := fmt.Sprintf("%s\n%s\n%s\n", keyDeliveryURL, keyPath, ivHex)
	if err := os.WriteFile(KeyInfoFilePath(outputDir), []byte(keyInfo), 0o600); err != nil {
		return fmt.Errorf("write keyinfo file: %w", err)
	}
	return nil
}

// PurgeTransientKeyArtifacts 删除两个瞬态文件。幂等，文件不存在不算错误。
// 删除失败只记日志：不影响已产出的清单，但属于安全隐患。
func PurgeTransientKeyArtifacts(outputDir string) {
	for _, p := range []string{KeyFilePath(outputDir), KeyInfoFilePath(outputDir)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warnf("failed to purge transient key artifact path=%s error=%v", p, err)
		}
	}
}
