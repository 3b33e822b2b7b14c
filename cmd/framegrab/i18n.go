// Package main provides localization for the framegrab CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Extraction": "抽出設定",
		"Output":     "出力",
		"Debug":      "デバッグ",
		"Logging":    "ログ",

		// Root command
		"Extract a single frame from a video file":                                            "動画ファイルから1フレームを抽出",
		"framegrab decodes the first frame at or after a timestamp and saves it as an image.": "framegrabは指定時刻以降の最初のフレームをデコードし、画像として保存します。",

		// Grab command
		"Save the frame at a timestamp as an image":                                         "指定時刻のフレームを画像として保存",
		"Decode the first frame at or after the timestamp and save it as PNG, JPEG or PPM.": "指定時刻以降の最初のフレームをデコードし、PNG・JPEG・PPMとして保存します。",

		// Probe command
		"List the streams of a video file":                           "動画ファイルのストリームを一覧表示",
		"Open the container and print its streams without decoding.": "デコードせずにコンテナを開き、ストリームを表示します。",
		"No video stream": "映像ストリームがありません",

		// Version command
		"Show version information":                                   "バージョン情報を表示",
		"Display the version of framegrab and the supported codecs.": "framegrabのバージョンと対応コーデックを表示します。",
		"framegrab version %s":                                       "framegrab バージョン %s",
		"Containers: %s":                                             "コンテナ: %s",
		"Codecs: %s":                                                 "コーデック: %s",

		// Extraction flags
		"YAML configuration file": "YAML設定ファイル",
		"Timestamp in seconds":    "時刻（秒）",
		"Maximum packets to read while decoding (negative = unlimited)": "デコード時に読み込む最大パケット数（負数 = 無制限）",

		// Output flags
		"Output image file path (required)":                             "出力画像ファイルパス（必須）",
		"Image format (png, jpeg, ppm; default: from output extension)": "画像形式（png, jpeg, ppm。デフォルト: 出力ファイルの拡張子）",
		"JPEG quality (1-100)":                                          "JPEG品質（1-100）",
		"Resize the image to this width (0 = frame width)":              "画像をこの幅にリサイズ（0 = フレームの幅）",
		"Stamp the frame time on the image":                             "フレームの時刻を画像に描画",
		"TrueType font for annotations":                                 "注記に使うTrueTypeフォント",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Error messages
		"Input file argument is required": "入力ファイルの引数が必要です",

		// Summary output flag
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",

		// Summary content
		"Frame Extraction Summary":              "フレーム抽出サマリー",
		"Item":                                  "項目",
		"Value":                                 "値",
		"Input":                                 "入力",
		"File":                                  "ファイル",
		"File Size":                             "ファイルサイズ",
		"Streams":                               "ストリーム数",
		"Video Stream":                          "映像ストリーム",
		"Index":                                 "番号",
		"Codec":                                 "コーデック",
		"Dimensions":                            "サイズ",
		"Time Base":                             "タイムベース",
		"Duration":                              "長さ",
		"Selected Frame":                        "選択されたフレーム",
		"Requested Time":                        "指定時刻",
		"Frame Time":                            "フレーム時刻",
		"Note":                                  "備考",
		"Requested time is past the last frame": "指定時刻が最後のフレームより後です",
		"Source Format":                         "元の画素形式",
		"Packets Read":                          "読み込みパケット数",
		"Frames Decoded":                        "デコードフレーム数",
		"Packet Limit":                          "パケット上限",
		"Unlimited":                             "無制限",
		"Format":                                "形式",
		"Annotated":                             "注記",
		"Yes":                                   "あり",
		"No":                                    "なし",
		"Generated at":                          "生成日時",
	})
}
