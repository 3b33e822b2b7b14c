package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Reading %s":                "%s を読み込み中",
		"Probing %s":                "%s を解析中",
		"Extracting frame at %.3fs": "%.3f 秒のフレームを抽出中",
		"Frame %dx%d at %.3fs (%d packets read, %d frames decoded)": "フレーム %dx%d (%.3f 秒, %d パケット読み込み, %d フレームデコード)",
		"Resizing frame to %dx%d":                                   "フレームを %dx%d にリサイズ中",
		"Annotating frame":                                          "フレームに注記を描画中",
		"Output saved to %s":                                        "出力を %s に保存しました",
		"Summary saved to %s":                                       "サマリーを %s に保存しました",
		"Found %d streams":                                          "%d 個のストリームが見つかりました",

		// Open stage
		"Opening container from %d bytes":  "%d バイトからコンテナを開いています",
		"Container opened with %d streams": "コンテナを開きました (%d ストリーム)",

		// Selector stage
		"Selected stream #%d (%s, %dx%d)": "ストリーム #%d を選択しました (%s, %dx%d)",

		// Seek stage
		"Seeking stream #%d to ts %d":                            "ストリーム #%d を ts %d へシーク中",
		"Requested time %.3fs is past the stream duration %.3fs": "指定時刻 %.3f 秒はストリーム長 %.3f 秒を超えています",

		// Decode stage
		"Selected frame pts=%d after %d frames":                "pts=%d のフレームを選択しました (%d フレーム目)",
		"End of stream after %d packets, draining decoder":     "%d パケットでストリーム終端に達しました。デコーダを排出中",
		"No frame at or after %.3fs, using last decoded frame": "%.3f 秒以降のフレームがないため、最後にデコードしたフレームを使用します",

		// Convert stage
		"Converting %dx%d %s frame to rgb24": "%dx%d の %s フレームを rgb24 に変換中",

		// Warnings
		"Requested time is past the end of the stream, using the last frame": "指定時刻がストリーム終端を超えているため、最後のフレームを使用します",
		"Failed to load font %s, using the built-in font: %v":                "フォント %s を読み込めませんでした。組み込みフォントを使用します: %v",
		"Failed to save debug output: %v":                                    "デバッグ出力の保存に失敗しました: %v",
		"Failed to write summary: %s":                                        "サマリーの書き込みに失敗しました: %s",
		"Interrupted, shutting down...":                                      "中断されました。シャットダウン中...",

		// Errors
		"Recovered from panic during extraction: %v": "抽出中のパニックから回復しました: %v",
		"Extraction failed: %v":                      "フレーム抽出に失敗しました: %v",
		"Failed to write output: %v":                 "出力の書き込みに失敗しました: %v",
	})
}
