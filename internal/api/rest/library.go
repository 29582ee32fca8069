package rest

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type VendorIndex struct {
	Vendor      string                 `yaml:"vendor"`
	Description string                 `yaml:"description"`
	Website     string                 `yaml:"website"`
	Presets     map[string][]PresetRef `yaml:"presets"`
}

type PresetRef struct {
	ID          string `yaml:"id"`
	File        string `yaml:"file"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tested      bool   `yaml:"tested"`
	Datasheet   string `yaml:"datasheet"`
}

// GET /api/v1/library
func (s *Server) listVendors(c *gin.Context) {
	searchPaths := s.lm.Config().Library.SearchPaths

	s.logger.Info("Listing preset vendors", zap.Strings("search_paths", searchPaths))

	vendors := make([]gin.H, 0)

	for _, searchPath := range searchPaths {
		if _, err := os.Stat(searchPath); os.IsNotExist(err) {
			s.logger.Warn("Preset directory does not exist", zap.String("path", searchPath))
			continue
		}

		entries, err := os.ReadDir(searchPath)
		if err != nil {
			s.logger.Error("Failed to read preset directory",
				zap.String("path", searchPath),
				zap.Error(err))
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			vendorName := entry.Name()
			indexPath := filepath.Join(searchPath, vendorName, "index.yaml")

			if _, err := os.Stat(indexPath); os.IsNotExist(err) {
				continue
			}

			data, err := os.ReadFile(indexPath)
			if err != nil {
				s.logger.Error("Failed to read vendor index",
					zap.String("vendor", vendorName),
					zap.Error(err))
				continue
			}

			var index VendorIndex
			if err := yaml.Unmarshal(data, &index); err != nil {
				s.logger.Error("Failed to parse vendor index",
					zap.String("vendor", vendorName),
					zap.Error(err))
				continue
			}

			// Collect all presets from all series
			presets := make([]PresetRef, 0)
			for _, seriesPresets := range index.Presets {
				presets = append(presets, seriesPresets...)
			}

			vendors = append(vendors, gin.H{
				"vendor":       index.Vendor,
				"description":  index.Description,
				"website":      index.Website,
				"presets":      presets,
				"preset_count": len(presets),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"vendors": vendors,
		"count":   len(vendors),
	})
}

// GET /api/v1/library/:vendor
func (s *Server) getVendorPresets(c *gin.Context) {
	vendor := c.Param("vendor")

	searchPaths := s.lm.Config().Library.SearchPaths

	for _, searchPath := range searchPaths {
		indexPath := filepath.Join(searchPath, vendor, "index.yaml")

		if _, err := os.Stat(indexPath); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(indexPath)
		if err != nil {
			s.logger.Error("Failed to read vendor index",
				zap.String("vendor", vendor),
				zap.Error(err))
			continue
		}

		var index VendorIndex
		if err := yaml.Unmarshal(data, &index); err != nil {
			s.logger.Error("Failed to parse vendor index",
				zap.String("vendor", vendor),
				zap.Error(err))
			continue
		}

		c.JSON(http.StatusOK, gin.H{
			"vendor":      index.Vendor,
			"description": index.Description,
			"website":     index.Website,
			"presets":     index.Presets,
		})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error":  "Vendor not found",
		"vendor": vendor,
	})
}

// GET /api/v1/library/:vendor/:model
func (s *Server) getPreset(c *gin.Context) {
	vendor := c.Param("vendor")
	model := c.Param("model")

	searchPaths := s.lm.Config().Library.SearchPaths

	for _, searchPath := range searchPaths {
		vendorPath := filepath.Join(searchPath, vendor)
		indexPath := filepath.Join(vendorPath, "index.yaml")

		if _, err := os.Stat(indexPath); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(indexPath)
		if err != nil {
			s.logger.Error("Failed to read index", zap.Error(err))
			continue
		}

		var index VendorIndex
		if err := yaml.Unmarshal(data, &index); err != nil {
			s.logger.Error("Failed to parse index", zap.Error(err))
			continue
		}

		// Find preset in index (case-insensitive search)
		var presetFile string
		modelLower := strings.ToLower(model)

		for _, seriesPresets := range index.Presets {
			for _, preset := range seriesPresets {
				if strings.ToLower(preset.Name) == modelLower ||
					strings.ToLower(preset.ID) == strings.ToLower(vendor+"-"+model) ||
					strings.ToLower(preset.ID) == modelLower {
					presetFile = preset.File
					break
				}
			}
			if presetFile != "" {
				break
			}
		}

		if presetFile == "" {
			continue
		}

		presetPath := filepath.Join(vendorPath, presetFile)

		presetData, err := os.ReadFile(presetPath)
		if err != nil {
			s.logger.Error("Failed to read preset file",
				zap.String("path", presetPath),
				zap.Error(err))
			continue
		}

		// Parse JSON to validate it
		var presetJSON map[string]interface{}
		if err := json.Unmarshal(presetData, &presetJSON); err != nil {
			s.logger.Error("Failed to parse preset JSON",
				zap.String("path", presetPath),
				zap.Error(err))
			continue
		}

		c.JSON(http.StatusOK, presetJSON)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error":  "Preset not found",
		"vendor": vendor,
		"model":  model,
	})
}
