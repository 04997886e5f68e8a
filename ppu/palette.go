package ppu

import "image/color"

// palette is the 2C02's fixed 64-entry RGB output table, indexed by the
// 6-bit color value produced by the background/sprite pipeline. Values
// taken from the commonly distributed "2C02" palette; emphasis bits
// (tint) are not modeled.
var palette = [64]color.RGBA{
	{0x62, 0x62, 0x62, 0xFF}, {0x00, 0x2E, 0x98, 0xFF}, {0x0C, 0x11, 0xA7, 0xFF}, {0x43, 0x00, 0xA6, 0xFF},
	{0x8C, 0x00, 0x76, 0xFF}, {0xAB, 0x00, 0x34, 0xFF}, {0xA7, 0x04, 0x00, 0xFF}, {0x7E, 0x1A, 0x00, 0xFF},
	{0x48, 0x2B, 0x00, 0xFF}, {0x13, 0x39, 0x00, 0xFF}, {0x00, 0x3F, 0x00, 0xFF}, {0x00, 0x3C, 0x22, 0xFF},
	{0x00, 0x32, 0x5D, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
	{0xAB, 0xAB, 0xAB, 0xFF}, {0x0D, 0x5D, 0xFF, 0xFF}, {0x45, 0x37, 0xFF, 0xFF}, {0x90, 0x17, 0xFF, 0xFF},
	{0xF4, 0x00, 0xFF, 0xFF}, {0xFF, 0x00, 0x8E, 0xFF}, {0xFF, 0x1D, 0x00, 0xFF}, {0xF0, 0x43, 0x00, 0xFF},
	{0xB8, 0x6A, 0x00, 0xFF}, {0x6B, 0x87, 0x00, 0xFF}, {0x1D, 0x97, 0x00, 0xFF}, {0x00, 0x94, 0x3D, 0xFF},
	{0x00, 0x88, 0x8E, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF}, {0x53, 0xAE, 0xFF, 0xFF}, {0x90, 0x85, 0xFF, 0xFF}, {0xD3, 0x65, 0xFF, 0xFF},
	{0xFF, 0x54, 0xFF, 0xFF}, {0xFF, 0x58, 0xCE, 0xFF}, {0xFF, 0x6F, 0x6A, 0xFF}, {0xFF, 0x8F, 0x2B, 0xFF},
	{0xF3, 0xB3, 0x09, 0xFF}, {0xB9, 0xD3, 0x00, 0xFF}, {0x6C, 0xE4, 0x08, 0xFF}, {0x36, 0xE1, 0x5E, 0xFF},
	{0x23, 0xD6, 0xB6, 0xFF}, {0x3C, 0x3C, 0x3C, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF}, {0xB6, 0xE1, 0xFF, 0xFF}, {0xCE, 0xD1, 0xFF, 0xFF}, {0xE9, 0xC3, 0xFF, 0xFF},
	{0xFF, 0xBC, 0xFF, 0xFF}, {0xFF, 0xBD, 0xF4, 0xFF}, {0xFF, 0xC6, 0xC3, 0xFF}, {0xFF, 0xD5, 0x9A, 0xFF},
	{0xE9, 0xE6, 0x81, 0xFF}, {0xCE, 0xF4, 0x81, 0xFF}, {0xB6, 0xFB, 0x9A, 0xFF}, {0xA9, 0xFA, 0xC3, 0xFF},
	{0xA9, 0xF0, 0xF4, 0xFF}, {0xB8, 0xB8, 0xB8, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
}
