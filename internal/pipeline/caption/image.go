package caption

import (
	"bytes"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // 注册 webp 解码器
)

// DecodedImage 解码并归一化（RGB）后的内存光栅；构造后不可变，
// 不跨请求缓存
type DecodedImage struct {
	raster *image.NRGBA
}

// decodeImage 打开并解码图像引用；解码失败返回底层错误，由调用方分类。
// 调用方必须先确认路径存在。
func decodeImage(path string) (*DecodedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	// Clone 统一输出 NRGBA，等价于 convert("RGB")
	return &DecodedImage{raster: imaging.Clone(img)}, nil
}

// Bounds 返回光栅尺寸
func (d *DecodedImage) Bounds() image.Rectangle {
	return d.raster.Bounds()
}

// EncodeJPEG 将归一化光栅重编码为 JPEG 字节（模型协作者的线上格式）
func (d *DecodedImage) EncodeJPEG() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, d.raster, imaging.JPEG, imaging.JPEGQuality(92)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
