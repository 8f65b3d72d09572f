// Package catalog は商品カタログのドメインロジックを提供する。
package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxImageSize は商品画像の最大サイズ（2MB）。
const maxImageSize = 2 * 1024 * 1024

// imageTimeout は商品画像取得のタイムアウト。
const imageTimeout = 5 * time.Second

// SSRFValidator は画像取得時のSSRF防止インターフェース。
// security.SSRFGuardServiceが実装する。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// ImageFetcherService は商品画像取得のインターフェース。
type ImageFetcherService interface {
	// FetchImage は指定URLから商品画像を取得する。
	// 取得失敗時はnilデータと空MIMEを返す（エラーは返さない）。
	// 画像が取得できなくても商品登録は成立し、表示は元URLに任せる。
	FetchImage(ctx context.Context, imageURL string) (data []byte, mimeType string, err error)
}

// ImageFetcher は商品画像取得機能の実装。
type ImageFetcher struct {
	ssrfGuard SSRFValidator
}

// NewImageFetcher はImageFetcherの新しいインスタンスを生成する。
func NewImageFetcher(ssrfGuard SSRFValidator) *ImageFetcher {
	return &ImageFetcher{
		ssrfGuard: ssrfGuard,
	}
}

// FetchImage は指定URLから商品画像を取得する。
// 管理者入力のURLであるため、取得前にSSRF検証を行う。
func (f *ImageFetcher) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	if imageURL == "" {
		return nil, "", nil
	}

	if f.ssrfGuard != nil {
		if err := f.ssrfGuard.ValidateURL(imageURL); err != nil {
			slog.Warn("商品画像取得: SSRFブロック", "url", imageURL, "error", err)
			return nil, "", nil
		}
	}

	client := f.getHTTPClient()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		slog.Warn("商品画像取得: リクエスト作成失敗", "url", imageURL, "error", err)
		return nil, "", nil
	}
	req.Header.Set("User-Agent", "EasyOrder/1.0")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("商品画像取得: HTTPリクエスト失敗", "url", imageURL, "error", err)
		return nil, "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("商品画像取得: HTTPステータス異常", "url", imageURL, "status", resp.StatusCode)
		return nil, "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		slog.Warn("商品画像取得: レスポンス読み取り失敗", "url", imageURL, "error", err)
		return nil, "", nil
	}

	if int64(len(body)) > maxImageSize {
		slog.Warn("商品画像取得: サイズ超過", "url", imageURL, "size", len(body))
		return nil, "", nil
	}

	mimeType := extractMimeType(resp.Header.Get("Content-Type"))
	if !isImageMime(mimeType) {
		slog.Warn("商品画像取得: 画像以外のContent-Type", "url", imageURL, "contentType", mimeType)
		return nil, "", nil
	}

	return body, mimeType, nil
}

// getHTTPClient はHTTPクライアントを取得する。
func (f *ImageFetcher) getHTTPClient() *http.Client {
	if f.ssrfGuard != nil {
		return f.ssrfGuard.NewSafeClient(imageTimeout, maxImageSize)
	}
	return &http.Client{Timeout: imageTimeout}
}

// extractMimeType はContent-Typeヘッダーからメディアタイプを抽出する。
func extractMimeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	parts := strings.SplitN(contentType, ";", 2)
	return strings.TrimSpace(strings.ToLower(parts[0]))
}

// isImageMime はMIMEタイプが画像かどうかを判定する。
func isImageMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// compile-time interface check
var _ ImageFetcherService = (*ImageFetcher)(nil)
